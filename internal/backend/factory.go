package backend

import (
	"context"
	"errors"
	"fmt"

	"splitcalc/internal/amqp"
	"splitcalc/internal/log"
	"splitcalc/internal/slots/file"
	gslot "splitcalc/internal/slots/google"
	"splitcalc/internal/slots/memory"
	"splitcalc/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Open creates the configured slot and, when AMQP_URL is set, an event
// publisher. A broker that cannot be reached is logged and skipped.
func (f *DefaultFactory) Open(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch config.Type {
	case MemoryBackend:
		res = &Result{Slot: memory.New(config.slotName())}
	case FileBackend:
		res, err = f.openFile(config)
	case SQLiteBackend:
		res, err = f.openSQLite(config)
	case PostgresBackend:
		res, err = f.openPostgres(ctx, config)
	case SheetsBackend:
		res, err = f.openSheets(ctx, config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized storage backend",
		log.FieldBackend, config.Type.String(),
		log.FieldSlot, res.Slot.Name())

	if config.AMQPURL != "" {
		f.attachPublisher(res, config)
	}
	return res, nil
}

func (f *DefaultFactory) openFile(config Config) (*Result, error) {
	slot, err := file.New(config.DataDirectory, config.slotName())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file slot: %w", err)
	}
	f.logger.Debug("File slot ready", "path", slot.Path())
	return &Result{Slot: slot}, nil
}

func (f *DefaultFactory) openSQLite(config Config) (*Result, error) {
	slot, err := storage.NewSQLiteSlot(config.SQLiteDBPath, config.slotName())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite slot: %w", err)
	}
	return &Result{Slot: slot, Cleanup: slot.Close}, nil
}

func (f *DefaultFactory) openPostgres(ctx context.Context, config Config) (*Result, error) {
	slot, err := storage.NewPostgresSlot(ctx, config.PostgresDSN, config.slotName())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres slot: %w", err)
	}
	return &Result{Slot: slot, Cleanup: slot.Close}, nil
}

func (f *DefaultFactory) openSheets(ctx context.Context, config Config) (*Result, error) {
	slot, err := gslot.New(ctx, gslot.Config{
		SpreadsheetID: config.GoogleSpreadsheetID,
		SheetName:     config.GoogleSheetName,
		SlotName:      config.slotName(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets slot: %w", err)
	}
	return &Result{Slot: slot}, nil
}

func (f *DefaultFactory) attachPublisher(res *Result, config Config) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, res.Slot.Name(), f.logger)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err.Error())
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	res.Notifier = client
	slotCleanup := res.Cleanup
	res.Cleanup = func() error {
		errs := []error{client.Close()}
		if slotCleanup != nil {
			errs = append(errs, slotCleanup())
		}
		return errors.Join(errs...)
	}
}
