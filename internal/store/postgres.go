package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool the postgres store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is a PostgreSQL-backed URLStore. The tube_state table is
// created by the platform/database migrations.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pool (or anything with the same methods).
func NewPostgresStore(db DBTX) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) LastURL(ctx context.Context) (string, error) {
	return s.Get(ctx, LastURLKey)
}

func (s *PostgresStore) SaveLastURL(ctx context.Context, url string) error {
	return s.Set(ctx, LastURLKey, url)
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM tube_state WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`INSERT INTO tube_state (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
