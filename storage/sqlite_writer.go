package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"catalogue-cleaner/models"
)

// SQLiteWriter mirrors the aggregate summary into an embedded SQLite file,
// for downstream tools that want a queryable copy next to the CSV.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter creates (or replaces) the SQLite database at the given path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create output dir: %w", err)
		}
	}
	// Stale databases from previous runs are replaced, not appended to.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("sqlite: remove stale db %q: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS product_summaries (
			display_title    TEXT    NOT NULL,
			avg_price        REAL    NOT NULL,
			occurrence_count INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create table: %w", err)
	}

	return &SQLiteWriter{db: db}, nil
}

// Write inserts all summary records inside a single transaction.
func (w *SQLiteWriter) Write(records []*models.AggregateRecord) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO product_summaries (display_title, avg_price, occurrence_count)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.DisplayTitle, r.AvgPrice, r.OccurrenceCount); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite: insert %q: %w", r.DisplayTitle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
