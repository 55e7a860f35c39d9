package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/pai-tube/internal/platform/cache"
	"github.com/p-n-ai/pai-tube/internal/platform/config"
	"github.com/p-n-ai/pai-tube/internal/platform/database"
)

// Open builds the URLStore selected by cfg.Store.Driver. The returned close
// function releases any connections and is never nil.
func Open(ctx context.Context, cfg *config.Config) (URLStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Driver {
	case config.StoreMemory:
		return NewMemoryStore(), noop, nil

	case config.StoreFile:
		return NewFileStore(cfg.Store.Path), noop, nil

	case config.StoreSQLite:
		s, err := OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.StorePostgres:
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		s, err := NewPostgresStore(pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		slog.Info("postgres store ready")
		return s, pool.Close, nil

	case config.StoreRedis:
		c, err := cache.Open(ctx, cfg.Cache)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("redis store ready", "prefix", cfg.Cache.Prefix)
		return NewRedisStore(c), func() { _ = c.Close() }, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
