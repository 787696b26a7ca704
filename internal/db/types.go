package db

import (
	"time"

	"matbench/internal/benchmark"
)

// RunStatus is the lifecycle state of a stored benchmark run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// RunMeta describes a benchmark run when it starts.
type RunMeta struct {
	StartedAt time.Time `json:"started_at"`
	Sizes     []int     `json:"sizes"`
	Runs      int       `json:"runs"`
	Output    string    `json:"output"`
	Hostname  string    `json:"hostname"`
}

// RunRecord is a stored benchmark run.
type RunRecord struct {
	ID         int64      `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     RunStatus  `json:"status"`
	Sizes      []int      `json:"sizes"`
	Runs       int        `json:"runs"`
	Output     string     `json:"output"`
	Hostname   string     `json:"hostname"`
}

// Store persists benchmark runs and their samples.
type Store interface {
	Close() error
	BeginRun(meta RunMeta) (int64, error)
	RecordSample(runID int64, s benchmark.Sample) error
	FinishRun(runID int64, status RunStatus) error
	ListRuns(limit int) ([]RunRecord, error)
	GetRun(runID int64) (*RunRecord, error)
	Samples(runID int64) ([]benchmark.Sample, error)
	// LatestCompletedRun returns the newest completed run other than
	// excludeID, or nil when there is none.
	LatestCompletedRun(excludeID int64) (*RunRecord, error)
}
