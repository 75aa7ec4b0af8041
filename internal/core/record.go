package core

import "time"

// RecordTimeLayout formats a record's capture time for display.
const RecordTimeLayout = "2006-01-02 15:04:05"

// CalculationRecord is an immutable snapshot of a successful calculation.
// The JSON shape is the persisted storage format.
type CalculationRecord struct {
	ID          int64         `json:"id"`
	Timestamp   int64         `json:"timestamp"`
	Expenses    []ExpenseItem `json:"expenses"`
	People      int           `json:"people"`
	Advanced    bool          `json:"advanced"`
	Percentages []float64     `json:"percentages"`
	Result      string        `json:"result"`
}

// NewRecord snapshots the ledger and policy. Nothing in the returned record
// shares memory with its inputs.
func NewRecord(id int64, at time.Time, l Ledger, p SplitPolicy, result string) CalculationRecord {
	return CalculationRecord{
		ID:          id,
		Timestamp:   at.UnixMilli(),
		Expenses:    l.Items(),
		People:      p.People,
		Advanced:    p.Advanced,
		Percentages: cloneFloats(p.Percentages),
		Result:      result,
	}
}

// NextRecordID derives an id from the capture time, bumped past lastID when
// two calculations land in the same millisecond.
func NextRecordID(now time.Time, lastID int64) int64 {
	id := now.UnixMilli()
	if id <= lastID {
		id = lastID + 1
	}
	return id
}

func (r CalculationRecord) Clone() CalculationRecord {
	r.Expenses = cloneExpenses(r.Expenses)
	r.Percentages = cloneFloats(r.Percentages)
	return r
}

func (r CalculationRecord) CapturedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Label is the record's display name in history and comparisons.
func (r CalculationRecord) Label() string {
	return r.CapturedAt().Format(RecordTimeLayout)
}

// Ledger rebuilds a live ledger from the snapshot.
func (r CalculationRecord) Ledger() Ledger {
	return NewLedger(r.Expenses...)
}

// Policy rebuilds the split inputs from the snapshot.
func (r CalculationRecord) Policy() SplitPolicy {
	return SplitPolicy{
		People:      r.People,
		Advanced:    r.Advanced,
		Percentages: cloneFloats(r.Percentages),
	}
}

// CloneRecords deep-copies a record list.
func CloneRecords(in []CalculationRecord) []CalculationRecord {
	out := make([]CalculationRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
