package app

import (
	"slices"

	"splitcalc/internal/core"
)

// Effect is the persistence work a transition asks for.
type Effect struct {
	// Append is the snapshot to add to the history.
	Append *core.CalculationRecord
	// Delete is the id to remove from the history.
	Delete *int64
	// Err is the validation failure of a Calculate, already rendered into
	// State.Result.
	Err error
}

func (e Effect) None() bool {
	return e.Append == nil && e.Delete == nil && e.Err == nil
}

// Reduce applies a to s. It never mutates s and performs no I/O.
func Reduce(s State, a Action) (State, Effect) {
	s = s.Clone()

	switch a := a.(type) {
	case AddCategory:
		s.Ledger = s.Ledger.AddCategory(a.Name)
	case UpdateAmount:
		s.Ledger = s.Ledger.UpdateAmount(a.ID, a.Amount)
	case SetAmountText:
		s.Ledger = s.Ledger.UpdateAmount(a.ID, core.ParseAmount(a.Text))
	case RemoveCategory:
		s.Ledger = s.Ledger.RemoveCategory(a.ID)

	case ClearValues:
		s.Ledger = s.Ledger.Clear()
		s.Policy = core.SplitPolicy{Advanced: s.Policy.Advanced, Percentages: []float64{}}
		s.Result, s.Outcome = "", nil
	case ResetDefaults:
		s.Ledger = s.Ledger.Reset()
		s.Policy = core.SplitPolicy{Percentages: []float64{}}
		s.Result, s.Outcome = "", nil

	case SetPeople:
		s.Policy = s.Policy.WithPeople(a.People)
	case SetPeopleText:
		s.Policy = s.Policy.WithPeople(core.ParsePeople(a.Text))
	case SetAdvanced:
		s.Policy = s.Policy.WithAdvanced(a.On)
	case ToggleAdvanced:
		s.Policy = s.Policy.WithAdvanced(!s.Policy.Advanced)
	case SetPercentage:
		s.Policy = s.Policy.WithPercentage(a.Index, a.Value)
	case SetPercentageText:
		s.Policy = s.Policy.WithPercentage(a.Index, core.ParseAmount(a.Text))

	case Calculate:
		return calculate(s, a)

	case LoadRecord:
		rec, ok := s.record(a.ID)
		if !ok {
			return s, Effect{}
		}
		s.Ledger = rec.Ledger()
		s.Policy = rec.Policy()
		s.Result = rec.Result
		s.Outcome = nil
		if out, err := core.ComputeSplit(s.Ledger.Total(), s.Policy, s.Currency); err == nil {
			s.Outcome = &out
		}

	case DeleteRecord:
		if _, ok := s.record(a.ID); !ok {
			return s, Effect{}
		}
		s.Records = slices.DeleteFunc(s.Records, func(r core.CalculationRecord) bool { return r.ID == a.ID })
		s.Selection = slices.DeleteFunc(s.Selection, func(id int64) bool { return id == a.ID })
		id := a.ID
		return s, Effect{Delete: &id}

	case SetSelected:
		s.Selection = setSelected(s, a.ID, a.Selected)
	}

	return s, Effect{}
}

func calculate(s State, a Calculate) (State, Effect) {
	total := s.Ledger.Total()
	out, err := core.ComputeSplit(total, s.Policy, s.Currency)
	if err != nil {
		s.Result = core.StatusMessage(err)
		s.Outcome = nil
		return s, Effect{Err: err}
	}

	s.Result = out.Result
	s.Outcome = &out
	rec := core.NewRecord(core.NextRecordID(a.Now, s.lastRecordID()), a.Now, s.Ledger, s.Policy, out.Result)
	s.Records = append(s.Records, rec)
	appended := rec.Clone()
	return s, Effect{Append: &appended}
}

func setSelected(s State, id int64, on bool) []int64 {
	sel := s.Selection
	i, found := slices.BinarySearch(sel, id)
	switch {
	case on && !found:
		if _, ok := s.record(id); !ok {
			return sel
		}
		return slices.Insert(sel, i, id)
	case !on && found:
		return slices.Delete(sel, i, i+1)
	}
	return sel
}
