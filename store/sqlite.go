package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteKV is a KV backed by a single SQLite table
type SQLiteKV struct {
	conn *sql.DB
}

// NewSQLiteKV opens (or creates) the database at dbPath
func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	kv := &SQLiteKV{conn: conn}

	if err := kv.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return kv, nil
}

// Close closes the database connection
func (kv *SQLiteKV) Close() error {
	return kv.conn.Close()
}

// migrate runs database migrations
func (kv *SQLiteKV) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := kv.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}

// Get retrieves the value stored under key
func (kv *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := kv.conn.QueryRow(
		"SELECT value FROM records WHERE key = ?",
		key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get record: %w", err)
	}

	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (kv *SQLiteKV) Set(key, value string) error {
	_, err := kv.conn.Exec(
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// Delete removes the value stored under key
func (kv *SQLiteKV) Delete(key string) error {
	_, err := kv.conn.Exec("DELETE FROM records WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Stats represents database statistics
type Stats struct {
	RecordCount int64
	DBSizeBytes int64
}

// Stats returns database statistics
func (kv *SQLiteKV) Stats() (*Stats, error) {
	stats := &Stats{}

	err := kv.conn.QueryRow("SELECT COUNT(*) FROM records").Scan(&stats.RecordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	// Database size is page_count * page_size
	var pageCount, pageSize int64
	err = kv.conn.QueryRow("PRAGMA page_count").Scan(&pageCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}

	err = kv.conn.QueryRow("PRAGMA page_size").Scan(&pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get page size: %w", err)
	}

	stats.DBSizeBytes = pageCount * pageSize

	return stats, nil
}
