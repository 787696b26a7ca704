package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"matbench/internal/benchmark"
)

// sqlStore holds the queries shared by the SQLite and Postgres stores.
// Queries are written with '?' placeholders and rebound for Postgres.
type sqlStore struct {
	db        *sql.DB
	dollarArg bool
}

func (s *sqlStore) rebind(query string) string {
	if !s.dollarArg {
		return query
	}
	return rebindDollar(query)
}

// rebindDollar replaces each '?' with $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// BeginRun inserts a run in the running state and returns its ID.
func (s *sqlStore) BeginRun(meta RunMeta) (int64, error) {
	sizes, err := json.Marshal(meta.Sizes)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal sizes: %w", err)
	}
	if meta.StartedAt.IsZero() {
		meta.StartedAt = time.Now()
	}

	query := s.rebind(`INSERT INTO benchmark_runs (started_at, status, sizes, runs, output, hostname)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	var id int64
	err = s.db.QueryRow(query, meta.StartedAt.UTC(), string(StatusRunning), string(sizes), meta.Runs, meta.Output, meta.Hostname).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// RecordSample stores one sample for a run.
func (s *sqlStore) RecordSample(runID int64, sample benchmark.Sample) error {
	query := s.rebind(`INSERT INTO benchmark_samples (run_id, matrix_size, run, time_seconds, real_memory_mb)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := s.db.Exec(query, runID, sample.MatrixSize, sample.Run, sample.TimeSeconds, sample.RealMemoryMB); err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// FinishRun sets the final status and finish time of a run.
func (s *sqlStore) FinishRun(runID int64, status RunStatus) error {
	query := s.rebind(`UPDATE benchmark_runs SET status = ?, finished_at = ? WHERE id = ?`)
	res, err := s.db.Exec(query, string(status), time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, status, sizes, runs, output, hostname`

// ListRuns returns the most recent runs, newest first.
func (s *sqlStore) ListRuns(limit int) ([]RunRecord, error) {
	query := s.rebind(`SELECT ` + runColumns + ` FROM benchmark_runs ORDER BY id DESC LIMIT ?`)
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a run by ID, or nil if it does not exist.
func (s *sqlStore) GetRun(runID int64) (*RunRecord, error) {
	query := s.rebind(`SELECT ` + runColumns + ` FROM benchmark_runs WHERE id = ?`)
	run, err := scanRun(s.db.QueryRow(query, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// LatestCompletedRun implements Store.
func (s *sqlStore) LatestCompletedRun(excludeID int64) (*RunRecord, error) {
	query := s.rebind(`SELECT ` + runColumns + ` FROM benchmark_runs
		WHERE status = ? AND id <> ? ORDER BY id DESC LIMIT 1`)
	run, err := scanRun(s.db.QueryRow(query, string(StatusCompleted), excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// Samples returns a run's samples in production order.
func (s *sqlStore) Samples(runID int64) ([]benchmark.Sample, error) {
	query := s.rebind(`SELECT matrix_size, run, time_seconds, real_memory_mb
		FROM benchmark_samples WHERE run_id = ? ORDER BY seq`)
	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []benchmark.Sample
	for rows.Next() {
		var sample benchmark.Sample
		if err := rows.Scan(&sample.MatrixSize, &sample.Run, &sample.TimeSeconds, &sample.RealMemoryMB); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		run      RunRecord
		finished sql.NullTime
		status   string
		sizes    string
	)
	if err := row.Scan(&run.ID, &run.StartedAt, &finished, &status, &sizes, &run.Runs, &run.Output, &run.Hostname); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	run.Status = RunStatus(status)
	if err := json.Unmarshal([]byte(sizes), &run.Sizes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sizes for run %d: %w", run.ID, err)
	}
	return &run, nil
}
