package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"splitcalc/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		StorageSlot:  "history",
		SQLiteDBPath: "/tmp/x.db",
		AMQPURL:      "amqp://localhost",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != SQLiteBackend || cfg.SlotName != "history" || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.AMQPURL == "" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "file without dir", config: Config{Type: FileBackend}, wantErr: "data directory"},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: "SQLite"},
		{name: "postgres without dsn", config: Config{Type: PostgresBackend}, wantErr: "Postgres DSN"},
		{name: "sheets without id", config: Config{Type: SheetsBackend}, wantErr: "Spreadsheet ID"},
		{name: "unknown", config: Config{Type: "redis"}, wantErr: "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestOpenLocalBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFactory(nil)

	for _, cfg := range []Config{
		{Type: MemoryBackend},
		{Type: FileBackend, DataDirectory: dir, SlotName: "history"},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "splitcalc.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			res, err := f.Open(ctx, cfg)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer res.Close()

			if err := res.Slot.Write(ctx, []byte("[]")); err != nil {
				t.Fatalf("Write: %v", err)
			}
			data, err := res.Slot.Read(ctx)
			if err != nil || string(data) != "[]" {
				t.Fatalf("Read = %q, %v", data, err)
			}
			if res.Notifier != nil || res.StoreOptions() != nil {
				t.Fatal("no notifier expected without AMQP")
			}
		})
	}
}
