package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	*sqlStore
}

// NewSQLiteStore creates a new SQLite store and applies migrations
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One writer; the benchmark loop records samples sequentially anyway.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{sqlStore: &sqlStore{db: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS benchmark_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			status TEXT NOT NULL,
			sizes TEXT NOT NULL,
			runs INTEGER NOT NULL,
			output TEXT NOT NULL DEFAULT '',
			hostname TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS benchmark_samples (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES benchmark_runs(id),
			matrix_size INTEGER NOT NULL,
			run INTEGER NOT NULL,
			time_seconds REAL NOT NULL,
			real_memory_mb REAL NOT NULL,
			UNIQUE (run_id, matrix_size, run)
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
