package cache

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a durable Store so fingerprinted results survive across
// scraping runs.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the cache database at path and runs
// the schema migration.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: set pragmas: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS content_cache (
	  fingerprint TEXT PRIMARY KEY,
	  payload     TEXT NOT NULL,
	  created_at  INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	);
	`)
	return err
}

// Get returns the payload stored for fingerprint, if any.
func (s *SQLiteStore) Get(fingerprint string) (string, bool, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM content_cache WHERE fingerprint = ?`, fingerprint,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: get: %w", err)
	}
	return payload, true, nil
}

// Put stores payload for fingerprint. INSERT OR IGNORE keeps the first
// write and silently drops later ones.
func (s *SQLiteStore) Put(fingerprint, payload string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO content_cache (fingerprint, payload) VALUES (?, ?)`,
		fingerprint, payload,
	)
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
