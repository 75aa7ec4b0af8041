package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"splitcalc/internal/slots"
)

// PostgresSlot keeps the slot payload in the storage_slots table of a
// Postgres database.
type PostgresSlot struct {
	pool *pgxpool.Pool
	name string
}

var _ slots.Slot = (*PostgresSlot)(nil)

func NewPostgresSlot(ctx context.Context, dsn, name string) (*PostgresSlot, error) {
	if name == "" {
		name = slots.DefaultName
	}
	if err := RunPostgresMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSlot{pool: pool, name: name}, nil
}

func (s *PostgresSlot) Name() string {
	return s.name
}

func (s *PostgresSlot) Read(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM storage_slots WHERE name = $1`, s.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, slots.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.name, err)
	}
	return []byte(payload), nil
}

func (s *PostgresSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO storage_slots (name, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		s.name, string(data))
	if err != nil {
		return fmt.Errorf("write slot %s: %w", s.name, err)
	}
	slog.DebugContext(ctx, "Slot saved to Postgres", "slot", s.name, "bytes", len(data))
	return nil
}

func (s *PostgresSlot) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
