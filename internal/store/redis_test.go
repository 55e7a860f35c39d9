package store

import (
	"os"
	"testing"

	"github.com/p-n-ai/pai-tube/internal/platform/cache"
	"github.com/p-n-ai/pai-tube/internal/platform/config"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TUBE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TUBE_TEST_REDIS_URL not set")
	}

	c, err := cache.Open(t.Context(), config.CacheConfig{URL: url, Prefix: "pai-tube-test"})
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() {
		c.Client.Del(t.Context(), c.Key(LastURLKey), c.Key(ClientKey("a")), c.Key(ClientKey("b")))
		_ = c.Close()
	})
	c.Client.Del(t.Context(), c.Key(LastURLKey), c.Key(ClientKey("a")), c.Key(ClientKey("b")))

	exerciseStore(t, NewRedisStore(c))
	exerciseScoped(t, NewRedisStore(c))
}

func TestRedisStore_Keys(t *testing.T) {
	s := NewRedisStore(&cache.Cache{Prefix: "pai-tube"})
	if got := s.cache.Key(LastURLKey); got != "pai-tube:last_yt_url" {
		t.Errorf("key = %q, want pai-tube:last_yt_url", got)
	}
	if got := s.cache.Key(ClientKey("abc")); got != "pai-tube:last_yt_url:abc" {
		t.Errorf("client key = %q, want pai-tube:last_yt_url:abc", got)
	}
}
