// Package cli holds the start-up steps shared by the splitcalc commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"splitcalc/internal/app"
	"splitcalc/internal/backend"
	"splitcalc/internal/config"
	"splitcalc/internal/log"
	"splitcalc/internal/records"
)

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(cfg log.Config) *log.Logger {
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoggerConfig derives the logger settings from the application config.
func LoggerConfig(cfg *config.Config, component string) log.Config {
	lc := log.DefaultConfig()
	lc.Level = log.ParseLevel(cfg.LogLevel)
	lc.Format = strings.ToLower(cfg.LogFormat)
	lc.Component = component
	return lc
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration could not be parsed", log.FieldError, err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}

// Session is an opened history with its controller and backend resources.
type Session struct {
	Controller *app.Controller
	Store      *records.Store
	Backend    *backend.Result
}

// Close releases the backend.
func (s *Session) Close() error {
	return s.Backend.Close()
}

// OpenSession opens the configured backend, loads the history and builds the
// controller. An unreadable history is logged and the session starts empty.
func OpenSession(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).Open(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}

	opts := append([]records.Option{records.WithLogger(logger)}, res.StoreOptions()...)
	store := records.NewStore(res.Slot, opts...)
	if err := store.Load(ctx); err != nil {
		logger.Warn("Starting with empty history", log.FieldSlot, store.SlotName(), log.FieldError, err.Error())
	}

	ctrl := app.NewController(store, app.WithLogger(logger), app.WithCurrency(cfg.Currency))
	return &Session{Controller: ctrl, Store: store, Backend: res}, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
