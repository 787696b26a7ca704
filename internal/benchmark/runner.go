package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	apperrors "matbench/internal/errors"
	"matbench/internal/matrix"
)

// Generator produces the two operands for one run.
type Generator interface {
	Generate(n int) (matrix.Matrix, matrix.Matrix, error)
}

// Config holds the sizes to benchmark, in order, and the runs per size.
type Config struct {
	Sizes []int
	Runs  int
}

// Validate checks that there is at least one size, every size is positive
// and at least one run is requested.
func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("at least one matrix size is required")
	}
	for _, size := range c.Sizes {
		if size <= 0 {
			return apperrors.NewInvalidSizeError(size, "must be positive")
		}
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	return nil
}

// Runner drives generate+multiply cycles over every (size, run) pair.
// Runs execute one after another on the calling goroutine.
// Runner is not safe for concurrent use.
type Runner struct {
	Config     Config
	Generator  Generator
	Multiplier matrix.Multiplier
	Clock      Clock
	Memory     MemorySampler
	// Sinks lists the primary output first. See record.
	Sinks      []Sink
	Logger     *slog.Logger
	// Progress receives the human readable per-run lines.
	Progress   io.Writer
}

// NewRunner creates a Runner with a time-seeded generator, the naive
// multiplier and the system clock.
func NewRunner(cfg Config, memory MemorySampler, sinks ...Sink) *Runner {
	return &Runner{
		Config:     cfg,
		Generator:  matrix.NewRandomGenerator(),
		Multiplier: matrix.Naive{},
		Clock:      SystemClock{},
		Memory:     memory,
		Sinks:      sinks,
		Logger:     slog.Default(),
		Progress:   io.Discard,
	}
}

// Run measures every configured (size, run) pair. Each sample is handed to
// every sink before the next run starts. The first failure stops the
// sequence and is returned as a *errors.RunError together with the samples
// recorded so far; a failed run never produces a sample.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	if r.Memory == nil {
		return nil, fmt.Errorf("memory sampler is not configured")
	}
	r.applyDefaults()

	result := NewResult()
	r.Logger.Info("benchmark run started", "sizes", r.Config.Sizes, "runs", r.Config.Runs)

	for _, size := range r.Config.Sizes {
		fmt.Fprintf(r.Progress, "\nRunning benchmarks for matrix size %dx%d...\n", size, size)
		for run := 1; run <= r.Config.Runs; run++ {
			if err := ctx.Err(); err != nil {
				return result, apperrors.NewRunError(size, run, err)
			}

			sample, err := r.measure(size, run)
			if err != nil {
				r.Logger.Error("benchmark run failed", "size", size, "run", run, "error", err)
				return result, apperrors.NewRunError(size, run, err)
			}

			if err := r.record(sample); err != nil {
				r.Logger.Error("failed to record sample", "size", size, "run", run, "error", err)
				return result, apperrors.NewRunError(size, run, err)
			}
			result.Add(sample)

			r.Logger.Debug("sample recorded",
				"size", size,
				"run", run,
				"time_seconds", sample.TimeSeconds,
				"real_memory_mb", sample.RealMemoryMB,
			)
			fmt.Fprintf(r.Progress, "  Run %d/%d: %ss, %sMB\n",
				run, r.Config.Runs, FormatValue(sample.TimeSeconds), FormatValue(sample.RealMemoryMB))
		}
	}

	r.Logger.Info("benchmark finished", "samples", result.Len())
	return result, nil
}

// record hands s to the sinks from last to first. The primary output goes
// first in Sinks, so it only receives samples every other sink accepted.
func (r *Runner) record(s Sample) error {
	for i := len(r.Sinks) - 1; i >= 0; i-- {
		if err := r.Sinks[i].Record(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) applyDefaults() {
	if r.Generator == nil {
		r.Generator = matrix.NewRandomGenerator()
	}
	if r.Multiplier == nil {
		r.Multiplier = matrix.Naive{}
	}
	if r.Clock == nil {
		r.Clock = SystemClock{}
	}
	if r.Logger == nil {
		r.Logger = slog.Default()
	}
	if r.Progress == nil {
		r.Progress = io.Discard
	}
}

// measure performs one run. Fresh operands are generated every time and
// dropped on return, as is the product.
func (r *Runner) measure(size, run int) (Sample, error) {
	a, b, err := r.Generator.Generate(size)
	if err != nil {
		return Sample{}, fmt.Errorf("failed to generate matrices: %w", err)
	}

	memBefore, err := r.Memory.SampleResidentMB()
	if err != nil {
		return Sample{}, err
	}

	// Operand checks for a Kernel run before the clock starts so that only
	// the triple loop is timed.
	kernel, ok := r.Multiplier.(matrix.Kernel)
	if ok {
		if err := matrix.CheckOperands(a, b); err != nil {
			return Sample{}, fmt.Errorf("multiply failed: %w", err)
		}
	}

	start := r.Clock.Now()
	if ok {
		kernel.Product(a, b)
	} else {
		_, err = r.Multiplier.Multiply(a, b)
	}
	end := r.Clock.Now()
	if err != nil {
		return Sample{}, fmt.Errorf("multiply failed: %w", err)
	}

	memAfter, err := r.Memory.SampleResidentMB()
	if err != nil {
		return Sample{}, err
	}

	elapsed := end.Sub(start).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	return Sample{
		MatrixSize:   size,
		Run:          run,
		TimeSeconds:  Round(elapsed),
		RealMemoryMB: Round(math.Max(memBefore, memAfter)),
	}, nil
}
