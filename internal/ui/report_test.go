package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"matbench/internal/benchmark"
	"matbench/internal/db"
)

func init() {
	// Plain output keeps column assertions readable
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestBanner(t *testing.T) {
	out := Banner([]int{128, 256}, 5, "data/go_benchmark_results.csv")
	assert.Contains(t, out, "Matrix Multiplication Benchmark")
	assert.Contains(t, out, "128x128, 256x256")
	assert.Contains(t, out, "5 per size")
	assert.Contains(t, out, "data/go_benchmark_results.csv")
}

func TestRenderAverages(t *testing.T) {
	out := RenderAverages([]benchmark.Average{
		{MatrixSize: 2, Runs: 3, AvgTimeSeconds: 0.00012, AvgRealMemoryMB: 10.5},
		{MatrixSize: 4, Runs: 3, AvgTimeSeconds: 0.5, AvgRealMemoryMB: 11},
	})

	assert.Contains(t, out, "Average Results")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, []string{"2x2", "3", "0.00012", "10.5"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"4x4", "3", "0.5", "11"}, strings.Fields(lines[4]))
}

func TestRenderAverages_Empty(t *testing.T) {
	assert.Contains(t, RenderAverages(nil), "No samples recorded.")
}

func TestRenderComparison(t *testing.T) {
	comps := benchmark.Compare(
		[]benchmark.Average{
			{MatrixSize: 2, AvgTimeSeconds: 1, AvgRealMemoryMB: 10},
			{MatrixSize: 4, AvgTimeSeconds: 2, AvgRealMemoryMB: 10},
		},
		[]benchmark.Average{
			{MatrixSize: 2, AvgTimeSeconds: 1.5, AvgRealMemoryMB: 10},
			{MatrixSize: 4, AvgTimeSeconds: 1, AvgRealMemoryMB: 12},
		},
	)

	out := RenderComparison(7, comps, 10)
	assert.Contains(t, out, "Compared to run #7")
	assert.Contains(t, out, "+50.00%")
	assert.Contains(t, out, "-50.00%")
	assert.Contains(t, out, "+20.00%")
	assert.Contains(t, out, "1 size(s) slower by more than 10.0%")

	out = RenderComparison(7, comps, 60)
	assert.Contains(t, out, "No regressions")

	assert.Contains(t, RenderComparison(1, nil, 10), "No matrix sizes in common.")
}

func TestRenderRuns(t *testing.T) {
	assert.Equal(t, "No benchmark runs found.\n", RenderRuns(nil, time.Now()))

	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)
	out := RenderRuns([]db.RunRecord{
		{ID: 2, Status: db.StatusRunning, StartedAt: started, Runs: 5, Sizes: []int{128}},
		{ID: 1, Status: db.StatusCompleted, StartedAt: started, FinishedAt: &finished, Runs: 3, Sizes: []int{2, 4}},
	}, started.Add(2*time.Hour))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], "running")
	assert.Contains(t, lines[2], " - ")
	assert.Contains(t, lines[3], "completed")
	assert.Contains(t, lines[3], "1.5s")
	assert.Contains(t, lines[3], "2h ago")
	assert.Contains(t, lines[3], "2,4")
}

func TestRenderRun(t *testing.T) {
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	run := db.RunRecord{ID: 3, Status: db.StatusCompleted, StartedAt: started, Hostname: "bench-01", Output: "out.csv"}
	samples := []benchmark.Sample{
		{MatrixSize: 2, Run: 1, TimeSeconds: 0.1, RealMemoryMB: 10},
		{MatrixSize: 2, Run: 2, TimeSeconds: 0.3, RealMemoryMB: 12},
	}

	out := RenderRun(run, samples)
	assert.Contains(t, out, "Run #3")
	assert.Contains(t, out, "bench-01")
	assert.Contains(t, out, "out.csv")
	assert.NotContains(t, out, "Finished:")
	assert.Contains(t, out, "Average Results")
	// (0.1 + 0.3) / 2 and (10 + 12) / 2
	assert.Contains(t, out, "0.2")
	assert.Contains(t, out, "11")
}
