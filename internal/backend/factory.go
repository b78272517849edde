package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/analytics"
	"spendwise/internal/cache"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/repository"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	base   *applog.Logger
	logger *slog.Logger
}

// NewFactory creates a new backend factory. Each component it builds gets a
// logger derived from base and tagged with that component.
func NewFactory(base *applog.Logger) Factory {
	if base == nil {
		base = applog.New(applog.Config{Handler: slog.Default().Handler()})
	}
	return &DefaultFactory{
		base:   base,
		logger: base.WithComponent(applog.ComponentBackend).Slog(),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}

	kv, err := f.openKV(config)
	if err != nil {
		return nil, err
	}
	store := storage.NewStore(kv, f.base.WithComponent(applog.ComponentStorage).Slog())

	var seed []core.Transaction
	if config.SeedDemo {
		seed = storage.DemoTransactions()
	}
	if err := store.Initialize(ctx, seed); err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	repo, err := repository.Open(ctx, store, repository.WithClock(now), repository.WithLogger(f.base.WithComponent(applog.ComponentRepository).Slog()))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open repository: %w", err)
	}

	res := &BackendResult{
		Store:    store,
		Repo:     repo,
		Sessions: repository.NewSessions(store),
	}

	engineOpts := []analytics.EngineOption{analytics.WithEngineClock(now)}
	if config.CacheSize > 0 {
		res.Cache = cache.NewLRUCache[any](config.CacheSize, config.CacheTTL)
		engineOpts = append(engineOpts, analytics.WithCache(res.Cache))
	}
	res.Analytics = analytics.NewEngine(repo, engineOpts...)

	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPRoutingKey)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			res.AMQP = client
			publisher = client
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"routing_key", config.AMQPRoutingKey)
		}
	}
	res.Service = services.NewTransactionService(repo, publisher)

	res.Cleanup = func() error {
		var errs []error
		if res.AMQP != nil {
			if err := res.AMQP.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		applog.FieldBackend, string(config.Type),
		applog.FieldCount, repo.Len(),
		"cache_enabled", res.Cache != nil,
		"amqp_enabled", res.AMQP != nil)

	return res, nil
}

func (f *DefaultFactory) openKV(config Config) (storage.Backend, error) {
	switch config.Type {
	case MemoryBackend:
		return storage.NewMemoryBackend(), nil
	case FileBackend:
		dir := config.DataDir
		if dir == "" {
			dir = "data"
		}
		kv, err := storage.NewFileBackend(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		return kv, nil
	case SQLiteBackend:
		kv, err := storage.NewSQLiteBackend(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		f.logger.Debug("SQLite schema ready", "path", config.SQLiteDBPath, "schema_version", kv.Version())
		return kv, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
