// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const createSecureTable = `
CREATE TABLE IF NOT EXISTS secure_store (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteTokenStore is the device secure store. Tokens live in a private
// SQLite database file instead of a world-readable JSON file.
type SQLiteTokenStore struct {
	db *sql.DB
}

// OpenSQLiteTokenStore opens (or creates) the database at path.
//
// Use ":memory:" for an ephemeral store.
func OpenSQLiteTokenStore(path string) (*SQLiteTokenStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open secure store: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSecureTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session: init secure store: %w", err)
	}

	return &SQLiteTokenStore{db: db}, nil
}

// Load returns the token stored under key, or "".
func (store *SQLiteTokenStore) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := store.db.QueryRowContext(ctx, `SELECT value FROM secure_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: load %s: %w", key, err)
	}
	return value, nil
}

// Save writes token under key, replacing any previous value.
func (store *SQLiteTokenStore) Save(ctx context.Context, key, token string) error {
	const query = `
		INSERT INTO secure_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := store.db.ExecContext(ctx, query, key, token); err != nil {
		return fmt.Errorf("session: save %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (store *SQLiteTokenStore) Delete(ctx context.Context, key string) error {
	if _, err := store.db.ExecContext(ctx, `DELETE FROM secure_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("session: delete %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (store *SQLiteTokenStore) Close() error {
	return store.db.Close()
}
