package registry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// SQLite driver using pure Go implementation
	_ "modernc.org/sqlite"
)

// Store is the run and incident registry, backed by a SQLite database file.
// Safe for concurrent use through the underlying *sql.DB.
type Store struct {
	db *sql.DB
}

// Open opens the registry at path, creating the file and schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create registry directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open registry database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize registry schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS ingestion_runs (
			run_id TEXT PRIMARY KEY,
			run_date TEXT NOT NULL,
			source_file TEXT NOT NULL,
			rows_loaded INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			model_tag TEXT
		);

		CREATE TABLE IF NOT EXISTS incidents (
			incident_id TEXT PRIMARY KEY,
			reported_at TEXT NOT NULL,
			source TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT,
			severity TEXT,
			line TEXT,
			station TEXT,
			target_team TEXT,
			raw_output TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_runs_run_date ON ingestion_runs(run_date);
		CREATE INDEX IF NOT EXISTS idx_incidents_reported ON incidents(reported_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
