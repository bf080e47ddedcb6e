package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"memorize-server/matcherrors"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS kv_slots (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const upsertSlotSQL = `
INSERT INTO kv_slots (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`

// Store is a Slot backed by a Postgres table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the kv_slots table exists.
// If databaseURL is empty, NewStore returns (nil, nil) and callers fall back
// to another backend.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Load returns the blob saved under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.pool == nil {
		return nil, matcherrors.ErrSlotEmpty
	}
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_slots WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, matcherrors.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %q: %w", key, err)
	}
	return data, nil
}

// Save replaces the blob under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if _, err := s.pool.Exec(ctx, upsertSlotSQL, key, data); err != nil {
		return fmt.Errorf("save slot %q: %w", key, err)
	}
	return nil
}

// Open picks the slot backend: Postgres when databaseURL is set, otherwise
// JSON files under dir.
func Open(ctx context.Context, databaseURL, dir string) (Slot, error) {
	pg, err := NewStore(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if pg != nil {
		return pg, nil
	}
	slog.Info("no DATABASE_URL; saving to files", "tag", "storage", "dir", dir)
	fs, err := NewFileSlot(dir)
	if err != nil {
		return nil, err
	}
	return fs, nil
}
