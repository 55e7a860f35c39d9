package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/p-n-ai/pai-tube/internal/platform/config"
)

// exerciseStore runs the shared URLStore contract against s.
func exerciseStore(t *testing.T, s URLStore) {
	t.Helper()
	ctx := context.Background()

	got, err := s.LastURL(ctx)
	if err != nil {
		t.Fatalf("LastURL() on empty store error = %v", err)
	}
	if got != "" {
		t.Errorf("LastURL() on empty store = %q, want empty", got)
	}

	for _, url := range []string{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/watch?v=abcdefghijk"} {
		if err := s.SaveLastURL(ctx, url); err != nil {
			t.Fatalf("SaveLastURL(%q) error = %v", url, err)
		}
		got, err := s.LastURL(ctx)
		if err != nil {
			t.Fatalf("LastURL() error = %v", err)
		}
		if got != url {
			t.Errorf("LastURL() = %q, want %q", got, url)
		}
	}
}

// exerciseScoped checks that two clients sharing s keep separate URLs and
// leave the unscoped entry alone.
func exerciseScoped(t *testing.T, s URLStore) {
	t.Helper()
	ctx := context.Background()
	a, b := Scoped(s, "a"), Scoped(s, "b")

	if err := a.SaveLastURL(ctx, "https://youtu.be/aaaaaaaaaaa"); err != nil {
		t.Fatalf("client a SaveLastURL() error = %v", err)
	}
	if got, err := b.LastURL(ctx); err != nil || got != "" {
		t.Errorf("client b LastURL() = %q, %v, want empty", got, err)
	}
	if err := b.SaveLastURL(ctx, "https://youtu.be/bbbbbbbbbbb"); err != nil {
		t.Fatalf("client b SaveLastURL() error = %v", err)
	}
	if got, _ := a.LastURL(ctx); got != "https://youtu.be/aaaaaaaaaaa" {
		t.Errorf("client a LastURL() = %q", got)
	}
	if got, _ := b.LastURL(ctx); got != "https://youtu.be/bbbbbbbbbbb" {
		t.Errorf("client b LastURL() = %q", got)
	}
}

// urlOnly hides the keyed methods of a store.
type urlOnly struct{ URLStore }

func TestScoped_Passthrough(t *testing.T) {
	m := NewMemoryStore()
	if got := Scoped(m, ""); got != URLStore(m) {
		t.Error("empty client should return the store unchanged")
	}
	plain := urlOnly{m}
	if got := Scoped(plain, "a"); got != URLStore(plain) {
		t.Error("non-keyed store should be returned unchanged")
	}
}

func TestMemoryStore_Scoped(t *testing.T) {
	exerciseScoped(t, NewMemoryStore())
}

func TestFileStore_Scoped(t *testing.T) {
	exerciseScoped(t, NewFileStore(filepath.Join(t.TempDir(), "state.json")))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.SaveLastURL(ctx, "https://youtu.be/dQw4w9WgXcQ")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.LastURL(ctx)
		}()
	}
	wg.Wait()

	if got, _ := s.LastURL(ctx); got != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("LastURL() = %q", got)
	}
}

func TestFileStore(t *testing.T) {
	exerciseStore(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json")))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	if err := NewFileStore(path).SaveLastURL(ctx, "https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	got, err := NewFileStore(path).LastURL(ctx)
	if err != nil {
		t.Fatalf("LastURL() error = %v", err)
	}
	if got != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("LastURL() = %q from a fresh instance", got)
	}
}

func TestFileStore_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewFileStore(path).SaveLastURL(context.Background(), "https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"theme": "dark"`) {
		t.Errorf("state file lost unrelated keys: %s", data)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).LastURL(context.Background()); err == nil {
		t.Fatal("LastURL() should fail on a corrupt state file")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "tube.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
	exerciseScoped(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLastURL(ctx, "https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got, _ := s.LastURL(ctx); got != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("LastURL() after reopen = %q", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		driver  string
		wantErr bool
	}{
		{config.StoreMemory, false},
		{config.StoreFile, false},
		{config.StoreSQLite, false},
		{"mongo", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.Driver = tt.driver
			cfg.Store.Path = filepath.Join(dir, tt.driver+".state")

			s, closeFn, err := Open(ctx, cfg)
			defer closeFn()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Fatal("Open() returned nil store")
			}
		})
	}
}
