// Package history persists a log of relay operations (model pulls and
// updates) in SQLite, so operators can see what the gateway has been asked
// to download and how each attempt ended.
//
// The active backend target itself is deliberately not persisted; only
// operation outcomes are.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is one recorded relay operation.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Model     string    `json:"model"`
	Endpoint  string    `json:"endpoint"`
	Outcome   string    `json:"outcome"`
	Records   int       `json:"records"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Store persists operation entries.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		model TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		outcome TEXT NOT NULL,
		records INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_operations_started ON operations(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores one finished operation and returns its generated id.
func (s *Store) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations (id, kind, model, endpoint, outcome, records, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.Model, e.Endpoint, e.Outcome, e.Records, e.Error,
		e.StartedAt.UnixMilli(), e.EndedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record operation: %w", err)
	}
	return e.ID, nil
}

// Recent returns up to limit operations, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, model, endpoint, outcome, records, error, started_at, ended_at
		FROM operations
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var started, ended int64
		if err := rows.Scan(&e.ID, &e.Kind, &e.Model, &e.Endpoint, &e.Outcome,
			&e.Records, &e.Error, &started, &ended); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.StartedAt = time.UnixMilli(started).UTC()
		e.EndedAt = time.UnixMilli(ended).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
