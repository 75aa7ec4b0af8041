package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"splitcalc/internal/core"
)

// Encode serializes the record list as the slot payload. An empty list
// encodes as "[]".
func Encode(recs []core.CalculationRecord) ([]byte, error) {
	if recs == nil {
		recs = []core.CalculationRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

// Decode parses a slot payload. Empty input yields an empty list.
func Decode(data []byte) ([]core.CalculationRecord, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.CalculationRecord{}, nil
	}
	var recs []core.CalculationRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if recs == nil {
		recs = []core.CalculationRecord{}
	}
	for i := range recs {
		if recs[i].Expenses == nil {
			recs[i].Expenses = []core.ExpenseItem{}
		}
		if recs[i].Percentages == nil {
			recs[i].Percentages = []float64{}
		}
	}
	return recs, nil
}
