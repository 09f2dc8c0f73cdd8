// Package cli holds the process bootstrap shared by the binaries and the
// pocketctl subcommands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pocket/internal/backend"
	"pocket/internal/config"
	"pocket/internal/kv"
	"pocket/internal/ledger"
	"pocket/internal/log"
	"pocket/internal/persistence"
)

// SetupLogger builds the process logger at level and makes it the slog
// default.
func SetupLogger(level slog.Level, component string) *log.Logger {
	logger := log.New(log.Config{
		Level:     level,
		Component: component,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it with validate,
// which is Config.Validate for most binaries.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger, validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore builds the snapshot store selected by cfg.
func OpenStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog())
	return factory.CreateStore(ctx, bcfg)
}

// ShutdownContext returns a context cancelled on SIGINT or SIGTERM. The
// received signal is logged.
func ShutdownContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Session is a ledger restored from a store that writes every mutation
// through before the command returns.
type Session struct {
	Ledger *ledger.Ledger

	saver   *persistence.DirectSaver
	cleanup backend.CleanupFunc
}

// NewSession restores the ledger stored in store. cleanup, if set, runs on
// Close.
func NewSession(ctx context.Context, store kv.Store, cleanup backend.CleanupFunc, logger *log.Logger) *Session {
	gw := persistence.NewGateway(store, logger.WithComponent(log.ComponentPersistence).Slog())
	snap, _ := gw.LoadSnapshot(ctx)

	saver := persistence.NewDirectSaver(ctx, gw)
	l := ledger.New(
		ledger.WithSaver(saver),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Slog()),
	)
	l.Restore(snap)
	return &Session{Ledger: l, saver: saver, cleanup: cleanup}
}

// Err reports the outcome of the last write, if any.
func (s *Session) Err() error {
	if err := s.saver.Err(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}

func (s *Session) Close() error {
	if s.cleanup == nil {
		return nil
	}
	return s.cleanup()
}
