package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"splitcalc/internal/amqp"
	"splitcalc/internal/log"
	"splitcalc/internal/records"
	"splitcalc/internal/slots"
)

// MirrorWorker copies the record history from the primary slot into a
// secondary one (normally a spreadsheet). Every mirror is a full rewrite, so
// events only say "something changed" and ordering does not matter.
type MirrorWorker struct {
	source slots.Reader
	target slots.Writer
	logger *log.Logger

	mu   sync.Mutex
	last []byte
}

func NewMirrorWorker(source slots.Reader, target slots.Writer, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		source: source,
		target: target,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent is the AMQP handler. Any event triggers a full mirror.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	w.logger.InfoContext(ctx, "Processing record event",
		"type", ev.Type,
		log.FieldRecordID, ev.RecordID,
		log.FieldSlot, ev.Slot)

	if _, err := w.Mirror(ctx); err != nil {
		return fmt.Errorf("mirror after %s: %w", ev.Type, err)
	}
	return nil
}

// Mirror copies the source payload to the target. It reports whether a write
// happened: unchanged payloads are skipped. A corrupt source is never copied.
func (w *MirrorWorker) Mirror(ctx context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := w.source.Read(ctx)
	if errors.Is(err, slots.ErrNotFound) {
		data = []byte("[]")
	} else if err != nil {
		return false, fmt.Errorf("read source slot: %w", err)
	}

	recs, err := records.Decode(data)
	if err != nil {
		return false, fmt.Errorf("source slot is not a record list: %w", err)
	}
	// re-encode so the mirror is canonical
	data, err = records.Encode(recs)
	if err != nil {
		return false, err
	}

	if w.last != nil && bytes.Equal(w.last, data) {
		w.logger.DebugContext(ctx, "Mirror up to date", log.FieldRecordCount, len(recs))
		return false, nil
	}

	start := time.Now()
	if err := w.target.Write(ctx, data); err != nil {
		return false, fmt.Errorf("write mirror: %w", err)
	}
	w.last = data

	w.logger.InfoContext(ctx, "Record history mirrored",
		log.FieldOperation, log.OpMirror,
		log.FieldRecordCount, len(recs),
		log.FieldDuration, time.Since(start).Milliseconds())
	return true, nil
}

// Run mirrors once immediately and then every interval until ctx ends.
// Failures are logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if _, err := w.Mirror(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Initial mirror failed", log.FieldError, err.Error())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Mirror(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic mirror failed", log.FieldError, err.Error())
			}
		}
	}
}
