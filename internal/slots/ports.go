// Package slots defines the durable storage slot the record history lives in:
// one named location holding a single JSON document that is read once and
// fully rewritten on every change.
package slots

import (
	"context"
	"errors"
)

// DefaultName is the slot name used when none is configured.
const DefaultName = "calculationRecords"

// ErrNotFound is returned by Read when nothing was ever written to the slot.
var ErrNotFound = errors.New("slot not found")

// Ports for storage adapters.
type (
	Reader interface {
		// Read returns the slot payload or ErrNotFound.
		Read(ctx context.Context) ([]byte, error)
	}

	Writer interface {
		// Write replaces the slot payload.
		Write(ctx context.Context, data []byte) error
	}

	Slot interface {
		Reader
		Writer
		Name() string
	}
)
