package memory

import (
	"context"
	"sync"

	"splitcalc/internal/slots"
)

// Slot keeps the payload in process memory. Nothing survives a restart.
type Slot struct {
	mu      sync.Mutex
	name    string
	data    []byte
	written bool
}

var _ slots.Slot = (*Slot)(nil)

func New(name string) *Slot {
	if name == "" {
		name = slots.DefaultName
	}
	return &Slot{name: name}
}

// NewWithData returns a slot pre-filled with data, as if it had been written.
func NewWithData(name string, data []byte) *Slot {
	s := New(name)
	s.data = append([]byte(nil), data...)
	s.written = true
	return s
}

func (s *Slot) Name() string {
	return s.name
}

func (s *Slot) Read(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.written {
		return nil, slots.ErrNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *Slot) Write(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.written = true
	return nil
}
