package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cost-seer/config"
	"cost-seer/identity"
	"cost-seer/logging"
	"cost-seer/repository"
	"cost-seer/repository/sqlite"
	"cost-seer/service"
)

// app holds the wired core for one command invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	engine  *service.EstimationEngine
	store   *service.EstimateStore
	closers []func() error
}

func newApp(ctx context.Context, opts *Options, provider identity.Provider) (*app, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	if !opts.logLevelSet {
		logger = logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	}

	a := &app{cfg: cfg, logger: logger, engine: service.NewEstimationEngine(nil)}

	var repo repository.EstimateRepository
	switch cfg.Storage {
	case config.StorageMemory:
		repo = repository.NewEstimateRepositoryMemory(nil)
	default:
		db, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open estimate store: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		repo = db
	}

	a.store = service.NewEstimateStore(repo, a.newCache(ctx), provider, cfg.CacheTTL, logger)
	logger.Debug("core wired", "storage", cfg.Storage, "redis", cfg.RedisAddr != "")
	return a, nil
}

// newCache prefers Redis when configured and reachable. The in-process
// fallback is only used with memory storage: a SQLite file can be written by
// other processes whose invalidations this cache would never see.
func (a *app) newCache(ctx context.Context) repository.CacheRepository {
	if a.cfg.RedisAddr == "" {
		return a.localCache()
	}

	cache := repository.NewRedisCache(a.cfg.RedisAddr, "costseer:")
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		a.logger.Warn("redis unavailable, falling back", "addr", a.cfg.RedisAddr, "error", err)
		_ = cache.Close()
		return a.localCache()
	}
	a.closers = append(a.closers, cache.Close)
	return cache
}

func (a *app) localCache() repository.CacheRepository {
	if a.cfg.Storage == config.StorageMemory {
		return repository.NewMemoryCache()
	}
	// nil disables list caching
	return nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cliIdentity maps --user/--email to the identity the store scopes by.
func cliIdentity(opts *Options) identity.Provider {
	return identity.Static{ID: opts.User, Email: opts.Email}
}
