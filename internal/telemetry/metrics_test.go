package telemetry

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"matbench/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()

	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 128, Run: 1, TimeSeconds: 0.02, RealMemoryMB: 40}))
	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 128, Run: 2, TimeSeconds: 0.03, RealMemoryMB: 41.5}))
	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 256, Run: 1, TimeSeconds: 0.2, RealMemoryMB: 45}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.samples.WithLabelValues("128")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.samples.WithLabelValues("256")))
	assert.Equal(t, 41.5, testutil.ToFloat64(m.residentMemory.WithLabelValues("128")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.multiplySeconds))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 2, Run: 1, TimeSeconds: 0.0001, RealMemoryMB: 12}))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `matbench_samples_total{size="2"} 1`)
	assert.Contains(t, string(body), `matbench_resident_memory_mb{size="2"} 12`)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 4, Run: 1, TimeSeconds: 0.001, RealMemoryMB: 20}))

	path := filepath.Join(t.TempDir(), "matbench.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "matbench_multiply_seconds_count{size=\"4\"} 1"))
}

func TestMetrics_WriteTextfileError(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "matbench.prom"))
	assert.ErrorContains(t, err, "failed to write metrics textfile")
}

func TestStartMetricsServer_InvalidPort(t *testing.T) {
	m := NewMetrics()
	stop, err := m.StartMetricsServer(0)
	assert.Nil(t, stop)
	assert.Error(t, err)
}

func TestStartMetricsServer_PortInUse(t *testing.T) {
	held, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer held.Close()
	port := held.Addr().(*net.TCPAddr).Port

	m := NewMetrics()
	stop, err := m.StartMetricsServer(port)
	assert.Nil(t, stop)
	assert.ErrorContains(t, err, "failed to start metrics server")
}

func TestStartMetricsServer_Serves(t *testing.T) {
	free, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := free.Addr().(*net.TCPAddr).Port
	require.NoError(t, free.Close())

	m := NewMetrics()
	require.NoError(t, m.Record(benchmark.Sample{MatrixSize: 4, Run: 1, TimeSeconds: 0.01, RealMemoryMB: 20}))
	stop, err := m.StartMetricsServer(port)
	require.NoError(t, err)
	defer stop()

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `matbench_samples_total{size="4"} 1`)
}
