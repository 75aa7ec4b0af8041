package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"splitcalc/internal/cli"
	apphttp "splitcalc/internal/http"
	"splitcalc/internal/log"
)

func main() {
	cli.LoadEnvFile()

	bootstrap := cli.SetupLogger(log.DefaultConfig())
	cfg := cli.LoadAndValidateConfig(bootstrap)
	logger := cli.SetupLogger(cli.LoggerConfig(cfg, log.ComponentApp))

	session, err := cli.OpenSession(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open history", log.FieldBackend, cfg.DataBackend, log.FieldError, err.Error())
		os.Exit(1)
	}
	defer session.Close()

	srv := apphttp.NewServer(cfg.Addr(), session.Controller, apphttp.Options{
		CacheSize: cfg.ComparisonCacheSize,
		CacheTTL:  cfg.ComparisonCacheTTL,
		Logger:    logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	})

	logger.Info("Starting splitcalc server",
		"addr", cfg.Addr(),
		log.FieldBackend, cfg.DataBackend,
		log.FieldSlot, session.Store.SlotName(),
		log.FieldRecordCount, session.Store.Len())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "addr", cfg.Addr())
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
