package backend

import (
	"context"
	"errors"
	"fmt"

	"jibajeti/internal/amqp"
	"jibajeti/internal/kv"
	"jibajeti/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{
		logger: log.OrDiscard(logger).WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend. When an AMQP URL is
// configured the store is wrapped so every mutation is published; a broker
// that cannot be reached is logged and skipped.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case FileBackend:
		result, err = f.createFileBackend(config)
	case MemoryBackend:
		result = f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if config.AMQPURL != "" {
		f.attachChangeFeed(ctx, config, result)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := kv.NewSQLiteStore(config.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", log.FieldPath, config.SQLitePath)

	return &BackendResult{
		Store:   store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	store, err := kv.NewFileStore(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.Info("Initialized file backend", log.FieldPath, store.Path())

	return &BackendResult{Store: store}, nil
}

func (f *DefaultFactory) createMemoryBackend() *BackendResult {
	store := kv.NewMemoryStore(nil)
	f.logger.Info("Initialized memory backend", log.FieldCount, store.Len())
	return &BackendResult{Store: store}
}

func (f *DefaultFactory) attachChangeFeed(ctx context.Context, config Config, result *BackendResult) {
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change feed", log.FieldError, err)
		return
	}
	f.logger.InfoContext(ctx, "Initialized AMQP change feed",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	result.Store = kv.Observe(result.Store, client.ChangeFunc())
	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		var err error
		if storeCleanup != nil {
			err = storeCleanup()
		}
		return errors.Join(err, client.Close())
	}
}
