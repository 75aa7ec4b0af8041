package split

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// Type identifies a split strategy.
type Type string

const (
	TypeEqual      Type = "EQUAL"
	TypePercentage Type = "PERCENTAGE"
)

// PercentageTolerance is the allowed distance of a percentage sum from 100.
const PercentageTolerance = 0.01

// Input carries the policy values a strategy reads.
type Input struct {
	People      int
	Percentages []float64
}

// Share is the amount one person pays. Person is 1-based.
type Share struct {
	Person int     `json:"person"`
	Amount float64 `json:"amount"`
}

// Strategy is implemented by every split rule.
type Strategy interface {
	// Calculate divides total among the people described by in.
	Calculate(total float64, in Input) ([]Share, error)

	// Type returns the identifier for this strategy
	Type() Type

	// Validate checks in without computing anything.
	Validate(total float64, in Input) error
}

// Factory creates strategies by type.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy registered for t.
func (f *Factory) Create(t Type) (Strategy, error) {
	switch t {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", t)
	}
}

var (
	ErrInvalidPeopleCount = errors.New("number of people must be greater than 0")
	ErrPercentageMismatch = errors.New("percentages must sum to 100")
	ErrAmountOverflow     = errors.New("amounts are too large to split")
)

// PercentageMismatchError reports the sum that failed validation.
type PercentageMismatchError struct {
	Sum float64
}

func (e *PercentageMismatchError) Error() string {
	return fmt.Sprintf("percentages must sum to 100, got %s", Format2(e.Sum))
}

func (e *PercentageMismatchError) Unwrap() error {
	return ErrPercentageMismatch
}

// Round2 rounds v to two decimal places. Non-finite values are returned
// unchanged.
func Round2(v float64) float64 {
	if !IsFinite(v) {
		return v
	}
	return exact(v).Round(2).InexactFloat64()
}

// Format2 renders v with exactly two decimals. Rounding works on the stored
// binary value, half away from zero, so 1.005 (stored as 1.00499...) gives
// "1.00" and 0.125 gives "0.13". Non-finite values render as "+Inf", "-Inf"
// or "NaN".
func Format2(v float64) string {
	if !IsFinite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return exact(v).StringFixed(2)
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// exact converts a finite v to the decimal it stores. 1074 fractional
// digits cover every float64.
func exact(v float64) decimal.Decimal {
	return decimal.RequireFromString(new(big.Float).SetFloat64(v).Text('f', 1074))
}

// Sum adds values in order.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
