// Package core holds the calculator's domain model: the expense ledger,
// the split policy, calculation records and the comparison engine.
//
// Amounts are float64 because totals must match plain left-to-right
// floating point addition of the entered values. Rounding only happens
// for display and for auto-filled percentages.
package core

import (
	"math"
	"strconv"
	"strings"

	"splitcalc/internal/core/split"
)

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return split.Round2(v)
}

// FormatAmount renders v with exactly two decimals, e.g. "25.00", rounding
// the stored binary value the way the browser's toFixed(2) does.
func FormatAmount(v float64) string {
	return split.Format2(v)
}

// ParseAmount coerces form input to a finite number. Anything that does not
// parse, or parses to NaN or an infinity, becomes 0.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

// ParsePeople coerces form input to a person count. Fractions are truncated
// and anything unparsable becomes 0.
func ParsePeople(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
