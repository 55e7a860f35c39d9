package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/pai-tube/internal/platform/cache"
)

// RedisStore is a Redis-backed URLStore, for deployments where several web
// server replicas share state. Keys live under the cache prefix.
type RedisStore struct {
	client redis.Cmdable
	cache  *cache.Cache
}

func NewRedisStore(c *cache.Cache) *RedisStore {
	return &RedisStore{client: c.Client, cache: c}
}

func (s *RedisStore) LastURL(ctx context.Context) (string, error) {
	return s.Get(ctx, LastURLKey)
}

func (s *RedisStore) SaveLastURL(ctx context.Context, url string) error {
	return s.Set(ctx, LastURLKey, url)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.cache.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.cache.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
