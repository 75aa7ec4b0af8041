package core

import (
	"errors"
	"fmt"
	"strings"

	"splitcalc/internal/core/split"
)

// SplitPolicy holds the split inputs. Like Ledger, its methods return
// modified copies.
type SplitPolicy struct {
	People      int       `json:"people"`
	Advanced    bool      `json:"advanced"`
	Percentages []float64 `json:"percentages"`
}

// Outcome is a successful split.
type Outcome struct {
	Mode      Mode          `json:"mode"`
	Total     float64       `json:"total"`
	PerPerson float64       `json:"per_person,omitempty"`
	Shares    []split.Share `json:"shares"`
	Result    string        `json:"result"`
}

func (p SplitPolicy) Mode() Mode {
	if p.Advanced {
		return Advanced
	}
	return Simple
}

func (p SplitPolicy) Clone() SplitPolicy {
	p.Percentages = cloneFloats(p.Percentages)
	return p
}

// WithPeople sets the person count. In advanced mode a positive count
// replaces the percentages with an equal split, discarding manual edits.
func (p SplitPolicy) WithPeople(n int) SplitPolicy {
	p = p.Clone()
	p.People = n
	if p.Advanced && n > 0 {
		p.Percentages = EqualPercentages(n)
	}
	return p
}

// WithAdvanced switches mode. Turning advanced on with a positive person
// count re-derives the equal split.
func (p SplitPolicy) WithAdvanced(on bool) SplitPolicy {
	p = p.Clone()
	p.Advanced = on
	if on && p.People > 0 {
		p.Percentages = EqualPercentages(p.People)
	}
	return p
}

// WithPercentage edits one person's share. Out of range indexes are ignored.
func (p SplitPolicy) WithPercentage(index int, value float64) SplitPolicy {
	p = p.Clone()
	if index < 0 || index >= len(p.Percentages) {
		return p
	}
	p.Percentages[index] = finiteOrZero(value)
	return p
}

// EqualPercentages returns n copies of 100/n rounded to two decimals. The
// result is not adjusted to sum to exactly 100.
func EqualPercentages(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	share := Round2(100 / float64(n))
	out := make([]float64, n)
	for i := range out {
		out[i] = share
	}
	return out
}

// ComputeSplit validates the policy against total and produces the outcome
// with its human readable result line.
func ComputeSplit(total float64, p SplitPolicy, currency string) (Outcome, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	factory := split.NewFactory()
	typ := split.TypeEqual
	if p.Advanced {
		typ = split.TypePercentage
	}
	strategy, err := factory.Create(typ)
	if err != nil {
		return Outcome{}, err
	}

	shares, err := strategy.Calculate(total, split.Input{People: p.People, Percentages: p.Percentages})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Mode: p.Mode(), Total: total, Shares: shares}
	if p.Advanced {
		parts := make([]string, len(shares))
		for i, s := range shares {
			parts[i] = fmt.Sprintf("Person %d: %s %s", s.Person, FormatAmount(s.Amount), currency)
		}
		out.Result = strings.Join(parts, " | ")
		return out, nil
	}

	out.PerPerson = total / float64(p.People)
	out.Result = fmt.Sprintf("Total Expense: %s %s, Each Person Pays: %s %s",
		FormatAmount(total), currency, FormatAmount(out.PerPerson), currency)
	return out, nil
}

// StatusMessage turns a split failure into the text shown to the user.
func StatusMessage(err error) string {
	var mismatch *split.PercentageMismatchError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &mismatch):
		return fmt.Sprintf("Total percentages must equal 100%%. Current total: %s%%", FormatAmount(mismatch.Sum))
	case errors.Is(err, ErrInvalidPeopleCount):
		return "Please enter a valid number of people (greater than 0)"
	case errors.Is(err, ErrAmountOverflow):
		return "Amounts are too large to calculate. Please enter smaller values"
	default:
		return err.Error()
	}
}
