package core

import (
	"errors"

	"splitcalc/internal/core/split"
)

const DefaultCurrency = "USD"

type (
	// ExpenseItem is one named bill in the ledger.
	ExpenseItem struct {
		ID       int     `json:"id"`
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// Mode selects how a total is divided.
	Mode string
)

const (
	Simple   Mode = "simple"
	Advanced Mode = "advanced"
)

var (
	ErrInvalidPeopleCount = split.ErrInvalidPeopleCount
	ErrPercentageMismatch = split.ErrPercentageMismatch
	ErrAmountOverflow     = split.ErrAmountOverflow
	ErrEmptyCategoryName  = errors.New("empty category name")
)

// DefaultExpenses returns the built-in category set.
func DefaultExpenses() []ExpenseItem {
	return []ExpenseItem{
		{ID: 1, Category: "Water Bill", Amount: 0},
		{ID: 2, Category: "Electricity Bill", Amount: 0},
		{ID: 3, Category: "Internet Bill", Amount: 0},
	}
}

func cloneExpenses(in []ExpenseItem) []ExpenseItem {
	return append([]ExpenseItem{}, in...)
}

func cloneFloats(in []float64) []float64 {
	return append([]float64{}, in...)
}
