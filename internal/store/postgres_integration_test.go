//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/p-n-ai/pai-tube/internal/platform/config"
	"github.com/p-n-ai/pai-tube/internal/platform/database"
)

func TestPostgresStore_Integration(t *testing.T) {
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("tube"),
		postgres.WithUsername("tube"),
		postgres.WithPassword("tube"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	cfg := config.DatabaseConfig{URL: url, MaxConns: 2, MinConns: 1}
	pool, err := database.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(pool.Close)
	// Migrating an up-to-date schema is a no-op.
	if err := database.Migrate(url); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	s, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)

	if err := s.LogEvent(Event{Type: EventQuizGenerated, URL: "https://youtu.be/dQw4w9WgXcQ", Data: map[string]any{"questions": 3}}); err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}
	var n int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM tube_events WHERE event_type = $1`, EventQuizGenerated).Scan(&n); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if n != 1 {
		t.Errorf("events = %d, want 1", n)
	}
}
