package app

import (
	"context"
	"sync"
	"time"

	"splitcalc/internal/core"
	"splitcalc/internal/log"
	"splitcalc/internal/records"
)

// Controller serializes actions for one session and applies their effects
// to the record store.
type Controller struct {
	mu     sync.Mutex
	state  State
	store  *records.Store
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l.WithComponent(log.ComponentApp)
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithCurrency(currency string) Option {
	return func(c *Controller) {
		if currency != "" {
			c.state.Currency = currency
		}
	}
}

// NewController starts a session over the store's current history. The
// store should already be loaded.
func NewController(store *records.Store, opts ...Option) *Controller {
	c := &Controller{
		state:  NewState(store.Records(), core.DefaultCurrency),
		store:  store,
		logger: log.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch applies a and persists the resulting effect. Validation failures
// are not errors: they land in State.Result. The returned error is a storage
// failure, which is also reported in State.Notice.
func (c *Controller) Dispatch(ctx context.Context, a Action) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if calc, ok := a.(Calculate); ok && calc.Now.IsZero() {
		calc.Now = c.now()
		a = calc
	}

	next, eff := Reduce(c.state, a)
	next.Notice = ""

	var err error
	switch {
	case eff.Append != nil:
		c.logger.InfoContext(ctx, "Calculation recorded", log.NewFields().
			WithCalculation(string(next.Policy.Mode()), next.Policy.People, next.Ledger.Total()).
			WithRecord(eff.Append.ID, len(next.Records)).ToSlice()...)
		err = c.store.Append(ctx, *eff.Append)
	case eff.Delete != nil:
		err = c.store.Delete(ctx, *eff.Delete)
	case eff.Err != nil:
		c.logger.DebugContext(ctx, "Calculation rejected",
			log.FieldOperation, Name(a), log.FieldError, eff.Err.Error())
	}

	if eff.Append != nil || eff.Delete != nil {
		next.Records = c.store.Records()
	}
	if err != nil {
		next.Notice = "Could not save history: " + err.Error()
	}

	c.state = next
	return next.Clone(), err
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Comparison aligns the currently selected records.
func (c *Controller) Comparison() core.Comparison {
	return c.State().Comparison()
}

// ComparisonInput returns the history revision, the selection and the
// selected records from one lock acquisition, so a cache key always names
// the records it was computed from.
func (c *Controller) ComparisonInput() (uint64, []int64, []core.CalculationRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Revision(), append([]int64{}, c.state.Selection...), c.state.SelectedRecords()
}
