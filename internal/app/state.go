// Package app holds the calculator session: an explicit State value, the
// actions a user can take, and a pure reducer that turns one into the next.
package app

import (
	"slices"

	"splitcalc/internal/core"
)

// State is everything the calculator screen shows.
type State struct {
	Ledger core.Ledger
	Policy core.SplitPolicy
	// Result is the last calculation line or the validation message that
	// replaced it.
	Result string
	// Outcome is the numeric split behind Result, nil when the last
	// calculation failed or none ran yet.
	Outcome *core.Outcome
	// Notice reports storage problems without touching Result.
	Notice    string
	Records   []core.CalculationRecord
	Selection []int64
	Currency  string
}

// NewState returns the initial session over an existing history.
func NewState(records []core.CalculationRecord, currency string) State {
	if currency == "" {
		currency = core.DefaultCurrency
	}
	return State{
		Ledger:    core.DefaultLedger(),
		Policy:    core.SplitPolicy{Percentages: []float64{}},
		Records:   core.CloneRecords(records),
		Selection: []int64{},
		Currency:  currency,
	}
}

// Clone deep-copies s.
func (s State) Clone() State {
	s.Policy = s.Policy.Clone()
	s.Records = core.CloneRecords(s.Records)
	s.Selection = append([]int64{}, s.Selection...)
	if s.Outcome != nil {
		o := *s.Outcome
		o.Shares = slices.Clone(o.Shares)
		s.Outcome = &o
	}
	return s
}

// Selected reports whether record id is part of the comparison selection.
func (s State) Selected(id int64) bool {
	_, ok := slices.BinarySearch(s.Selection, id)
	return ok
}

// SelectedRecords returns the selected records in history order.
func (s State) SelectedRecords() []core.CalculationRecord {
	return core.SelectRecords(s.Records, s.Selection)
}

// Comparison aligns the selected records.
func (s State) Comparison() core.Comparison {
	return core.Compare(s.SelectedRecords())
}

func (s State) record(id int64) (core.CalculationRecord, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return core.CalculationRecord{}, false
}

func (s State) lastRecordID() int64 {
	if len(s.Records) == 0 {
		return 0
	}
	return s.Records[len(s.Records)-1].ID
}
