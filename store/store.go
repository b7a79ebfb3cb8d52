// Package store persists the stop collection between invocations: the full
// collection serialized as JSON under one fixed key in a SQLite-backed
// key-value table. Absence or corruption of the stored value means "no
// prior data", never a fatal error.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// autosaveKey is the single key the stop collection lives under.
const autosaveKey = "busStopsData"

// Store is the SQLite-backed autosave store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at the given path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

func (s *Store) migrate() error {
	_, err := s.db.Exec(migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes a value under a key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	return eris.Wrapf(err, "store: put %s", key)
}

// Get reads a value by key. A missing key returns nil bytes and no error.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get %s", key)
	}
	return []byte(value), nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return eris.Wrapf(err, "store: delete %s", key)
}

// SaveStops persists the serialized stop collection.
func (s *Store) SaveStops(ctx context.Context, data []byte) error {
	return s.Put(ctx, autosaveKey, data)
}

// LoadStops returns the serialized stop collection, or nil when none was
// saved.
func (s *Store) LoadStops(ctx context.Context) ([]byte, error) {
	return s.Get(ctx, autosaveKey)
}

// ClearStops removes the saved collection.
func (s *Store) ClearStops(ctx context.Context) error {
	return s.Delete(ctx, autosaveKey)
}
