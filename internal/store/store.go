// Package store persists small JSON payloads under string keys, backed by
// sqlite. It is the local-storage analog the news coordinator writes its
// history envelope into.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a sqlite-backed key-value store. Reads and writes go through
// separate handles; the write handle is capped at one connection.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// Open opens (creating if needed) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get returns the payload stored under key, with ok reporting whether the
// key exists.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.readDB.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous payload.
func (s *Store) Put(key string, value []byte) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.writeDB.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *Store) UpdatedAt(key string) (time.Time, bool, error) {
	var at time.Time
	err := s.readDB.QueryRow("SELECT updated_at FROM kv WHERE key = ?", key).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return at, true, nil
}

// Stats returns the number of stored keys and the database file size.
func (s *Store) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting keys: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("reading db size: %w", err)
	}
	return count, info.Size(), nil
}
