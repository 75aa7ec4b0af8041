package app

import "time"

// Action is a user intent. The concrete types below are the only actions.
type Action interface {
	actionName() string
}

type (
	AddCategory struct{ Name string }

	UpdateAmount struct {
		ID     int
		Amount float64
	}

	// SetAmountText coerces raw form input; unparsable text becomes 0.
	SetAmountText struct {
		ID   int
		Text string
	}

	RemoveCategory struct{ ID int }

	// ClearValues zeroes the amounts and resets people, percentages and result.
	ClearValues struct{}

	// ResetDefaults additionally restores the default categories and leaves
	// advanced mode.
	ResetDefaults struct{}

	SetPeople struct{ People int }

	// SetPeopleText coerces raw form input; unparsable text becomes 0.
	SetPeopleText struct{ Text string }

	SetAdvanced struct{ On bool }

	ToggleAdvanced struct{}

	SetPercentage struct {
		Index int
		Value float64
	}

	SetPercentageText struct {
		Index int
		Text  string
	}

	// Calculate runs the split. Now stamps the snapshot on success.
	Calculate struct{ Now time.Time }

	LoadRecord struct{ ID int64 }

	DeleteRecord struct{ ID int64 }

	SetSelected struct {
		ID       int64
		Selected bool
	}
)

func (AddCategory) actionName() string       { return "add_category" }
func (UpdateAmount) actionName() string      { return "update_amount" }
func (SetAmountText) actionName() string     { return "update_amount" }
func (RemoveCategory) actionName() string    { return "remove_category" }
func (ClearValues) actionName() string       { return "clear_values" }
func (ResetDefaults) actionName() string     { return "reset_defaults" }
func (SetPeople) actionName() string         { return "set_people" }
func (SetPeopleText) actionName() string     { return "set_people" }
func (SetAdvanced) actionName() string       { return "set_advanced" }
func (ToggleAdvanced) actionName() string    { return "toggle_advanced" }
func (SetPercentage) actionName() string     { return "set_percentage" }
func (SetPercentageText) actionName() string { return "set_percentage" }
func (Calculate) actionName() string         { return "calculate" }
func (LoadRecord) actionName() string        { return "load_record" }
func (DeleteRecord) actionName() string      { return "delete_record" }
func (SetSelected) actionName() string       { return "set_selected" }

// Name returns a stable identifier for logging.
func Name(a Action) string {
	if a == nil {
		return ""
	}
	return a.actionName()
}
