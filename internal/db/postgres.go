package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	*sqlStore
}

// NewPostgresStore creates a new Postgres store and applies migrations
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{sqlStore: &sqlStore{db: db, dollarArg: true}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS benchmark_runs (
			id BIGSERIAL PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			status TEXT NOT NULL,
			sizes TEXT NOT NULL,
			runs INTEGER NOT NULL,
			output TEXT NOT NULL DEFAULT '',
			hostname TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS benchmark_samples (
			seq BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES benchmark_runs(id),
			matrix_size INTEGER NOT NULL,
			run INTEGER NOT NULL,
			time_seconds DOUBLE PRECISION NOT NULL,
			real_memory_mb DOUBLE PRECISION NOT NULL,
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
