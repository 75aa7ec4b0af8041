package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"splitcalc/internal/amqp"
	"splitcalc/internal/backend"
	"splitcalc/internal/cli"
	"splitcalc/internal/log"
	gslot "splitcalc/internal/slots/google"
	"splitcalc/internal/worker"
)

// splitcalc-worker mirrors the history slot into a Google Sheet whenever a
// record event arrives, and on a fixed interval for missed events.
func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(log.DefaultConfig())
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cli.LoggerConfig(cfg, log.ComponentWorker))

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.DataBackend == string(backend.SheetsBackend) {
		logger.Error("Mirror source and target are both Google Sheets", log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	logger.Info("Starting splitcalc-worker",
		log.FieldBackend, cfg.DataBackend,
		"interval", cfg.MirrorInterval.String())

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	// The worker reads the slot; it never publishes events itself.
	bcfg.AMQPURL = ""

	ctx, done := cli.GracefulShutdown(logger, 15*time.Second, nil)

	source, err := backend.NewFactory(logger).Open(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to open source backend", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer source.Close()

	target, err := gslot.New(ctx, gslot.Config{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
		SlotName:      source.Slot.Name(),
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets slot", log.FieldError, err.Error())
		os.Exit(1)
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, source.Slot.Name(), logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer consumer.Close()

	mirror := worker.NewMirrorWorker(source.Slot, target, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.ConsumeWithReconnect(gctx, mirror.HandleEvent)
	})
	g.Go(func() error {
		return mirror.Run(gctx, cfg.MirrorInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
