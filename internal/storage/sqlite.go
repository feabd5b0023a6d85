package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite keeps every device's keys in one local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the device database at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS device_kv (
		device TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (device, key)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create device_kv: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Device(id string) Store {
	return &sqliteDevice{db: s.db, device: id}
}

type sqliteDevice struct {
	db     *sql.DB
	device string
}

func (d *sqliteDevice) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM device_kv WHERE device = ? AND key = ?`, d.device, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, wrapClosed(err)
	}
	return value, true, nil
}

func (d *sqliteDevice) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO device_kv (device, key, value, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (device, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`
	_, err := d.db.ExecContext(ctx, q, d.device, key, value)
	return wrapClosed(err)
}

func (d *sqliteDevice) Remove(ctx context.Context, key string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM device_kv WHERE device = ? AND key = ?`, d.device, key)
	return wrapClosed(err)
}

func wrapClosed(err error) error {
	if err != nil && errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", ErrClosed, err)
	}
	return err
}
