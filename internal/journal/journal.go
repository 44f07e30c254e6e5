// Package journal keeps a local record of submission attempts and their
// outcomes. It is purely observational: dialog behavior never depends on it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed submission journal.
type Store struct {
	db *sql.DB
}

// Entry is one recorded submission attempt.
type Entry struct {
	ID          string    `json:"id"`
	TelegramID  string    `json:"telegram_id"`
	Description string    `json:"description"`
	HasImage    bool      `json:"has_image"`
	Success     bool      `json:"success"`
	ProductName string    `json:"product_name,omitempty"`
	StepTitle   string    `json:"step_title,omitempty"`
	Confidence  int       `json:"confidence,omitempty"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id TEXT PRIMARY KEY,
    telegram_id TEXT NOT NULL,
    description TEXT NOT NULL,
    has_image INTEGER NOT NULL DEFAULT 0,
    success INTEGER NOT NULL DEFAULT 0,
    product_name TEXT NOT NULL DEFAULT '',
    step_title TEXT NOT NULL DEFAULT '',
    confidence INTEGER NOT NULL DEFAULT 0,
    message TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at DESC);
`

// Open creates or opens the journal database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory journal (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory journal: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one submission attempt.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, telegram_id, description, has_image, success, product_name, step_title, confidence, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TelegramID, e.Description, e.HasImage, e.Success,
		e.ProductName, e.StepTitle, e.Confidence, e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording submission %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the most recent submission attempts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, telegram_id, description, has_image, success, product_name, step_title, confidence, message, created_at
		FROM submissions
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TelegramID, &e.Description, &e.HasImage, &e.Success,
			&e.ProductName, &e.StepTitle, &e.Confidence, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
