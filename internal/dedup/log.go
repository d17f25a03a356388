// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-search/pkg/types"
)

// Log is the append-only duplicate audit log, persisted in its own SQLite
// database so the review trail survives restarts. Nothing ever deletes from
// it.
type Log struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenLog opens or creates the audit log database at path, creating parent
// directories and the schema as needed.
func OpenLog(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating duplicate log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening duplicate log: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS duplicates (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		candidate TEXT NOT NULL,
		existing_id TEXT NOT NULL,
		existing_title TEXT,
		similarity REAL NOT NULL,
		flagged_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating duplicate log schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close releases the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append writes one record to the log.
func (l *Log) Append(ctx context.Context, rec types.DuplicateRecord) error {
	candidateJSON, err := json.Marshal(rec.Candidate)
	if err != nil {
		return fmt.Errorf("encoding duplicate candidate: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO duplicates (candidate, existing_id, existing_title, similarity, flagged_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(candidateJSON), rec.ExistingID, rec.ExistingTitle, rec.Similarity, rec.FlaggedAt,
	)
	if err != nil {
		return fmt.Errorf("appending duplicate record: %w", err)
	}
	return nil
}

// List returns every record in append order.
func (l *Log) List(ctx context.Context) ([]types.DuplicateRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT candidate, existing_id, existing_title, similarity, flagged_at
		 FROM duplicates ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("reading duplicate log: %w", err)
	}
	defer rows.Close()

	var records []types.DuplicateRecord
	for rows.Next() {
		var (
			rec           types.DuplicateRecord
			candidateJSON string
		)
		if err := rows.Scan(&candidateJSON, &rec.ExistingID, &rec.ExistingTitle, &rec.Similarity, &rec.FlaggedAt); err != nil {
			return nil, fmt.Errorf("scanning duplicate record: %w", err)
		}
		if err := json.Unmarshal([]byte(candidateJSON), &rec.Candidate); err != nil {
			return nil, fmt.Errorf("decoding duplicate candidate: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
