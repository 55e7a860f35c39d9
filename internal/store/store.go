// Package store persists the last submitted video URL so it can be restored
// on the next start.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LastURLKey is the key the last submitted URL is stored under.
const LastURLKey = "last_yt_url"

const dbTimeout = 5 * time.Second

// URLStore reads and writes the last submitted URL. A store that has never
// been written returns "" and no error.
type URLStore interface {
	LastURL(ctx context.Context) (string, error)
	SaveLastURL(ctx context.Context, url string) error
}

// KeyedStore is a string key-value store. Every URLStore in this package
// implements it, which is what lets Scoped keep one URL per client.
type KeyedStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ScopedStore is a URLStore view of one client's entry in a KeyedStore.
type ScopedStore struct {
	kv  KeyedStore
	key string
}

// Scoped returns a URLStore that reads and writes client's own last URL.
// Stores that are not keyed, and an empty client, are returned unchanged.
func Scoped(s URLStore, client string) URLStore {
	kv, ok := s.(KeyedStore)
	if !ok || client == "" {
		return s
	}
	return &ScopedStore{kv: kv, key: ClientKey(client)}
}

// ClientKey is the key a client's last URL is stored under.
func ClientKey(client string) string {
	return LastURLKey + ":" + client
}

func (s *ScopedStore) LastURL(ctx context.Context) (string, error) {
	return s.kv.Get(ctx, s.key)
}

func (s *ScopedStore) SaveLastURL(ctx context.Context, url string) error {
	return s.kv.Set(ctx, s.key, url)
}

// MemoryStore is an in-memory implementation of URLStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) LastURL(ctx context.Context) (string, error) {
	return s.Get(ctx, LastURLKey)
}

func (s *MemoryStore) SaveLastURL(ctx context.Context, url string) error {
	return s.Set(ctx, LastURLKey, url)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// FileStore keeps state as a small JSON object on disk, one key per entry.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the JSON file at path. The file and
// its directory are created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LastURL(ctx context.Context) (string, error) {
	return s.Get(ctx, LastURLKey)
}

func (s *FileStore) SaveLastURL(ctx context.Context, url string) error {
	return s.Set(ctx, LastURLKey, url)
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", s.path, err)
	}
	return values, nil
}
