// Package history persists validation runs to a local SQLite database so a
// production can audit what was checked and when.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded validation.
type Run struct {
	ID           string
	SceneName    string
	Source       string
	Valid        bool
	ErrorCount   int
	WarningCount int
	CreatedAt    time.Time
}

// Store manages the validation-run database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS validation_runs (
		id TEXT PRIMARY KEY,
		scene_name TEXT NOT NULL,
		source TEXT NOT NULL,
		valid INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		warning_count INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON validation_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_scene ON validation_runs(scene_name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record inserts one run and returns its id. A missing id or timestamp is
// filled in.
func (s *Store) Record(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO validation_runs
			(id, scene_name, source, valid, error_count, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SceneName, run.Source, run.Valid,
		run.ErrorCount, run.WarningCount, run.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("record validation run: %w", err)
	}
	return run.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, scene_name, source, valid, error_count, warning_count, created_at
		FROM validation_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query validation runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SceneName, &r.Source, &r.Valid,
			&r.ErrorCount, &r.WarningCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan validation run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
