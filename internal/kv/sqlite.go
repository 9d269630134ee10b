package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteProvider implements Provider on a single-table SQLite database.
type SQLiteProvider struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLiteProvider opens (creating if needed) the database at path.
func OpenSQLiteProvider(ctx context.Context, path string, logger *slog.Logger) (*SQLiteProvider, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and avoids SQLITE_BUSY
	// between our own writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		sqliteSchema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init sqlite %s: %w", path, err)
		}
	}

	logger.Debug("opened sqlite store", slog.String("path", path))

	return &SQLiteProvider{db: db, path: path, logger: logger}, nil
}

func (p *SQLiteProvider) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %q: %w", key, err)
	}
	return v, true, nil
}

func (p *SQLiteProvider) Set(ctx context.Context, key, value string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

// Close releases the database handle
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}
