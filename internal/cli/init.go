// Package cli provides common CLI initialization utilities shared by the
// subcommands of cmd/jibajeti.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jibajeti/internal/app"
	"jibajeti/internal/backend"
	"jibajeti/internal/config"
	"jibajeti/internal/log"
)

// SetupLogger initializes structured logging at level and writes it to w.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string, w io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Output:    w,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig(logger *log.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration could not be loaded", log.FieldError, err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		return nil, err
	}
	return cfg, nil
}

// Runtime is everything a command needs: the container and the resources
// behind it.
type Runtime struct {
	Config  *config.Config
	Logger  *log.Logger
	App     *app.App
	backend *backend.BackendResult
}

// Close stops the container and releases the store.
func (r *Runtime) Close() error {
	r.App.Close()
	return r.backend.Close()
}

// Open builds the store selected by cfg and the container on top of it.
// Logger and InsightsDelay in opts are filled in from cfg when unset.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger, opts app.Options) (*Runtime, error) {
	backendConfig, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendConfig)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err, log.FieldBackend, backendConfig.Type)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if opts.Logger == nil {
		opts.Logger = logger
	}
	if opts.InsightsDelay == 0 {
		opts.InsightsDelay = cfg.Session.InsightsDelay
	}
	a := app.New(ctx, result.Store, opts)
	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		App:     a,
		backend: result,
	}, nil
}

// Bootstrap runs the common startup sequence: .env, config, logger, store.
// Logs go to logOutput.
func Bootstrap(ctx context.Context, logOutput io.Writer, opts app.Options) (*Runtime, error) {
	LoadEnvFile()

	// the level is not known before the config is loaded
	logger := SetupLogger(os.Getenv("LOG_LEVEL"), logOutput)
	cfg, err := LoadAndValidateConfig(logger)
	if err != nil {
		return nil, err
	}
	logger = SetupLogger(cfg.LogLevel, logOutput)

	return Open(ctx, cfg, logger, opts)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-time.After(timeout):
			logger.Warn("Shutdown timeout reached")
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
