// Package storage provides the client-local key/value store used for session
// persistence, backed by a single sqlite file.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

// Local is a small persistent key/value store. One instance corresponds to
// one state file on disk.
type Local struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the state file at path.
func Open(path string, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping state file: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	logger.Debug("state store opened", zap.String("path", path))
	return &Local{db: db, logger: logger}, nil
}

// Get returns the value stored under key, and whether the key exists.
func (l *Local) Get(key string) (string, bool, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (l *Local) Set(key, value string) error {
	_, err := l.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (l *Local) Delete(key string) error {
	if _, err := l.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Local) Close() error {
	return l.db.Close()
}
