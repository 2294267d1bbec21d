package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"catalogue-cleaner/models"
	"catalogue-cleaner/utils"
)

// PostgresWriter mirrors the aggregate summary into PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS product_summaries (
			id               SERIAL PRIMARY KEY,
			display_title    TEXT          NOT NULL,
			avg_price        NUMERIC(12,2) NOT NULL DEFAULT 0,
			occurrence_count INTEGER       NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_summaries_count ON product_summaries(occurrence_count);
		CREATE INDEX IF NOT EXISTS idx_summaries_price ON product_summaries(avg_price);
	`)
	return err
}

// Clear deletes all existing summaries from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM product_summaries")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts ALL summary records, clearing old data first.
func (pw *PostgresWriter) Write(records []*models.AggregateRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 100
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.AggregateRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*3)

	for idx, r := range batch {
		base := idx * 3
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, r.DisplayTitle, r.AvgPrice, r.OccurrenceCount)
	}

	query := fmt.Sprintf(`
		INSERT INTO product_summaries (display_title, avg_price, occurrence_count)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored summaries, most frequent first.
func (pw *PostgresWriter) FetchAll() ([]*models.AggregateRecord, error) {
	rows, err := pw.db.Query(`
		SELECT display_title, avg_price, occurrence_count
		FROM product_summaries
		ORDER BY occurrence_count DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var records []*models.AggregateRecord
	for rows.Next() {
		r := &models.AggregateRecord{}
		if err := rows.Scan(&r.DisplayTitle, &r.AvgPrice, &r.OccurrenceCount); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
