package core

import "strings"

// Ledger is the live set of expense categories. Methods never modify the
// receiver: each returns a new Ledger that shares no memory with the old one.
type Ledger struct {
	items []ExpenseItem
}

func NewLedger(items ...ExpenseItem) Ledger {
	return Ledger{items: cloneExpenses(items)}
}

// DefaultLedger returns a ledger holding the built-in categories.
func DefaultLedger() Ledger {
	return Ledger{items: DefaultExpenses()}
}

// Items returns a copy of the current items in insertion order.
func (l Ledger) Items() []ExpenseItem {
	return cloneExpenses(l.items)
}

// Clone returns an independent copy of l.
func (l Ledger) Clone() Ledger {
	return Ledger{items: cloneExpenses(l.items)}
}

func (l Ledger) Len() int {
	return len(l.items)
}

// Total sums the amounts in insertion order.
func (l Ledger) Total() float64 {
	var total float64
	for _, it := range l.items {
		total += it.Amount
	}
	return total
}

// AddCategory appends a zero-amount item under the next free id. Blank names
// are ignored.
func (l Ledger) AddCategory(name string) Ledger {
	if strings.TrimSpace(name) == "" {
		return l
	}
	items := cloneExpenses(l.items)
	items = append(items, ExpenseItem{ID: l.nextID(), Category: name, Amount: 0})
	return Ledger{items: items}
}

// UpdateAmount replaces the amount of item id. Non-finite values become 0
// and negative values are clamped to 0.
func (l Ledger) UpdateAmount(id int, value float64) Ledger {
	value = finiteOrZero(value)
	if value < 0 {
		value = 0
	}
	items := cloneExpenses(l.items)
	for i := range items {
		if items[i].ID == id {
			items[i].Amount = value
		}
	}
	return Ledger{items: items}
}

// RemoveCategory drops item id. Removing an absent id is a no-op.
func (l Ledger) RemoveCategory(id int) Ledger {
	items := make([]ExpenseItem, 0, len(l.items))
	for _, it := range l.items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	return Ledger{items: items}
}

// Clear zeroes every amount but keeps the categories.
func (l Ledger) Clear() Ledger {
	items := cloneExpenses(l.items)
	for i := range items {
		items[i].Amount = 0
	}
	return Ledger{items: items}
}

// Reset restores the default categories.
func (l Ledger) Reset() Ledger {
	return DefaultLedger()
}

func (l Ledger) nextID() int {
	if len(l.items) == 0 {
		return 1
	}
	maxID := l.items[0].ID
	for _, it := range l.items[1:] {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID + 1
}
