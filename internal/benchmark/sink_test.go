package benchmark

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	apperrors "matbench/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVSink_HeaderWrittenOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)
	defer sink.Close()

	assert.Equal(t, path, sink.Path())
	rows := readCSV(t, path)
	assert.Equal(t, [][]string{Header}, rows)
}

func TestCSVSink_RowsFlushedPerSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(Sample{MatrixSize: 128, Run: 1, TimeSeconds: 0.123456789, RealMemoryMB: 42}))

	// Visible before Close.
	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"128", "1", "0.12346", "42"}, rows[1])
}

func TestCSVSink_BenchmarkOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go_benchmark_results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)

	r := NewRunner(Config{Sizes: []int{2, 4}, Runs: 3}, &fakeMemory{values: []float64{30.5}}, sink)
	r.Clock = newFakeClock(2 * time.Millisecond)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	rows := readCSV(t, path)
	require.Len(t, rows, 7)
	assert.Equal(t, Header, rows[0])

	seen := make(map[[2]int]int)
	for _, row := range rows[1:] {
		size, err := strconv.Atoi(row[0])
		require.NoError(t, err)
		run, err := strconv.Atoi(row[1])
		require.NoError(t, err)
		seconds, err := strconv.ParseFloat(row[2], 64)
		require.NoError(t, err)
		mem, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)

		seen[[2]int{size, run}]++
		assert.GreaterOrEqual(t, seconds, 0.0)
		assert.GreaterOrEqual(t, mem, 0.0)
	}

	for _, size := range []int{2, 4} {
		for run := 1; run <= 3; run++ {
			assert.Equal(t, 1, seen[[2]int{size, run}], "size %d run %d", size, run)
		}
	}
}

func TestCSVSink_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	path := filepath.Join(blocker, "results.csv")
	sink, err := NewCSVSink(path)
	assert.Nil(t, sink)

	var ioErr *apperrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create directory", ioErr.Op)

	_, statErr := os.Stat(path)
	assert.Error(t, statErr)
}

func TestCSVSink_OpenDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	assert.Nil(t, sink)

	var ioErr *apperrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
}

func TestCSVSink_WriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	sink, err := NewCSVSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	err = sink.Record(Sample{MatrixSize: 2, Run: 1})
	assert.True(t, apperrors.IsFatalIO(err))
}
