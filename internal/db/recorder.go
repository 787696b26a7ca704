package db

import (
	"log/slog"

	"matbench/internal/benchmark"
	apperrors "matbench/internal/errors"
)

// Recorder mirrors runner samples into a Store. It implements benchmark.Sink.
type Recorder struct {
	store Store
	runID int64
}

// NewRecorder begins a run in store and returns a sink bound to it.
func NewRecorder(store Store, meta RunMeta) (*Recorder, error) {
	id, err := store.BeginRun(meta)
	if err != nil {
		return nil, apperrors.NewIOError("begin run", "history", err)
	}
	return &Recorder{store: store, runID: id}, nil
}

// RunID returns the ID of the stored run.
func (r *Recorder) RunID() int64 {
	return r.runID
}

// Record implements benchmark.Sink.
func (r *Recorder) Record(s benchmark.Sample) error {
	if err := r.store.RecordSample(r.runID, s); err != nil {
		return apperrors.NewIOError("record sample", "history", err)
	}
	return nil
}

// Finish marks the run completed, or failed when runErr is non-nil.
func (r *Recorder) Finish(runErr error) error {
	status := StatusCompleted
	if runErr != nil {
		status = StatusFailed
	}
	if err := r.store.FinishRun(r.runID, status); err != nil {
		slog.Error("Failed to finish history run", "run_id", r.runID, "error", err)
		return err
	}
	return nil
}
