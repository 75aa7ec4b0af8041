// Package records keeps the ordered history of calculation snapshots and
// persists it, in full, to a storage slot after every change.
package records

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"splitcalc/internal/core"
	"splitcalc/internal/log"
	"splitcalc/internal/slots"
)

var (
	// ErrStorageRead marks an unreadable or unparsable slot. Load logs it and
	// starts from an empty history.
	ErrStorageRead = errors.New("storage read failure")
	// ErrPersist wraps failures writing the slot.
	ErrPersist = errors.New("persist records")
)

// Notifier is told about history changes after they are persisted.
type Notifier interface {
	RecordCreated(ctx context.Context, rec core.CalculationRecord) error
	RecordDeleted(ctx context.Context, id int64) error
}

type Store struct {
	mu       sync.RWMutex
	slot     slots.Slot
	logger   *log.Logger
	notifier Notifier
	records  []core.CalculationRecord
	revision uint64
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentRecords)
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func NewStore(slot slots.Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		logger:  log.Discard(),
		records: []core.CalculationRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory history with the slot contents. A missing slot
// is an empty history. An unreadable one is logged, yields an empty history,
// and the wrapped ErrStorageRead is returned for callers that care.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.slot.Read(ctx)
	if errors.Is(err, slots.ErrNotFound) {
		s.replace(nil)
		return nil
	}
	if err != nil {
		s.replace(nil)
		err = fmt.Errorf("%w: %v", ErrStorageRead, err)
		s.logger.WarnContext(ctx, "Failed to read record slot, starting empty",
			log.FieldSlot, s.slot.Name(), log.FieldError, err.Error())
		return err
	}

	recs, err := Decode(data)
	if err != nil {
		s.replace(nil)
		err = fmt.Errorf("%w: %v", ErrStorageRead, err)
		s.logger.WarnContext(ctx, "Record slot is corrupt, starting empty",
			log.FieldSlot, s.slot.Name(), log.FieldError, err.Error())
		return err
	}

	s.replace(recs)
	s.logger.InfoContext(ctx, "Records loaded",
		log.FieldSlot, s.slot.Name(), log.FieldRecordCount, len(recs))
	return nil
}

func (s *Store) replace(recs []core.CalculationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recs == nil {
		recs = []core.CalculationRecord{}
	}
	s.records = recs
	s.revision++
}

// Append adds rec to the end of the history and persists the full list. On a
// persist failure the record stays in memory and the error is returned.
func (s *Store) Append(ctx context.Context, rec core.CalculationRecord) error {
	s.mu.Lock()
	s.records = append(s.records, rec.Clone())
	s.revision++
	snapshot := core.CloneRecords(s.records)
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		s.logMutation(ctx, log.OpCreate, rec.ID, len(snapshot), err)
		return err
	}
	s.logMutation(ctx, log.OpCreate, rec.ID, len(snapshot), nil)

	if s.notifier != nil {
		if err := s.notifier.RecordCreated(ctx, rec.Clone()); err != nil {
			s.logger.WarnContext(ctx, "Record notification failed",
				log.FieldRecordID, rec.ID, log.FieldError, err.Error())
		}
	}
	return nil
}

// Delete removes the record with id. Unknown ids are a no-op and nothing is
// written.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	s.revision++
	snapshot := core.CloneRecords(s.records)
	s.mu.Unlock()

	if err := s.persist(ctx, snapshot); err != nil {
		s.logMutation(ctx, log.OpDelete, id, len(snapshot), err)
		return err
	}
	s.logMutation(ctx, log.OpDelete, id, len(snapshot), nil)

	if s.notifier != nil {
		if err := s.notifier.RecordDeleted(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "Record notification failed",
				log.FieldRecordID, id, log.FieldError, err.Error())
		}
	}
	return nil
}

func (s *Store) persist(ctx context.Context, recs []core.CalculationRecord) error {
	data, err := Encode(recs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Store) logMutation(ctx context.Context, op string, id int64, count int, err error) {
	fields := log.NewFields().WithOperation(op).WithRecord(id, count).WithError(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist records", fields.ToSlice()...)
		return
	}
	s.logger.InfoContext(ctx, "Records persisted", fields.ToSlice()...)
}

// Records returns a deep copy of the history in insertion order.
func (s *Store) Records() []core.CalculationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneRecords(s.records)
}

func (s *Store) Get(id int64) (core.CalculationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return core.CalculationRecord{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Revision increases on every change to the in-memory history.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) SlotName() string {
	return s.slot.Name()
}
