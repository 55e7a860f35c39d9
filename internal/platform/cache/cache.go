// Package cache connects to Redis and namespaces the keys stored there.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-tube/internal/platform/config"
)

// Cache is a Redis client plus the key prefix shared by everything this
// process writes.
type Cache struct {
	Client *redis.Client
	Prefix string
}

// Options turns the cache settings into client options.
func Options(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return opts, nil
}

// Open connects and pings Redis.
func Open(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}
	return &Cache{Client: client, Prefix: cfg.Prefix}, nil
}

// Key joins parts under the prefix with ':'.
func (c *Cache) Key(parts ...string) string {
	key := strings.Join(parts, ":")
	if c.Prefix == "" {
		return key
	}
	return c.Prefix + ":" + key
}

func (c *Cache) Close() error {
	return c.Client.Close()
}
