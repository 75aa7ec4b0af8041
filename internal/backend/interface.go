package backend

import (
	"context"

	"splitcalc/internal/records"
	"splitcalc/internal/slots"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result is an opened storage slot plus the optional event notifier, with
// one cleanup for both.
type Result struct {
	Slot     slots.Slot
	Notifier records.Notifier
	Cleanup  CleanupFunc
}

// Close runs Cleanup if set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// StoreOptions returns the records options matching the result.
func (r *Result) StoreOptions() []records.Option {
	if r.Notifier == nil {
		return nil
	}
	return []records.Option{records.WithNotifier(r.Notifier)}
}

// Factory opens storage slots based on configuration
type Factory interface {
	Open(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type     Type
	SlotName string

	// File
	DataDirectory string

	// SQLite
	SQLiteDBPath string

	// Postgres
	PostgresDSN string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Optional event publishing
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type names a storage backend.
type Type string

const (
	MemoryBackend   Type = "memory"
	FileBackend     Type = "file"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
	SheetsBackend   Type = "sheets"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
