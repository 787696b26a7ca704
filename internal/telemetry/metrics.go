package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"matbench/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes benchmark samples as Prometheus series on a private
// registry. It implements benchmark.Sink.
type Metrics struct {
	registry        *prometheus.Registry
	samples         *prometheus.CounterVec
	multiplySeconds *prometheus.HistogramVec
	residentMemory  *prometheus.GaugeVec
}

// NewMetrics creates and registers the benchmark collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.samples = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matbench_samples_total",
			Help: "Number of benchmark samples recorded",
		},
		[]string{"size"},
	)

	m.multiplySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matbench_multiply_seconds",
			Help:    "Elapsed time of one naive matrix multiply",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		},
		[]string{"size"},
	)

	m.residentMemory = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "matbench_resident_memory_mb",
			Help: "Resident memory recorded for the latest sample of each size",
		},
		[]string{"size"},
	)

	m.registry.MustRegister(m.samples, m.multiplySeconds, m.residentMemory)
	return m
}

// Record implements benchmark.Sink.
func (m *Metrics) Record(s benchmark.Sample) error {
	size := strconv.Itoa(s.MatrixSize)
	m.samples.WithLabelValues(size).Inc()
	m.multiplySeconds.WithLabelValues(size).Observe(s.TimeSeconds)
	m.residentMemory.WithLabelValues(size).Set(s.RealMemoryMB)
	return nil
}

// Registry returns the registry holding the benchmark collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current values in the text exposition format,
// suitable for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// StartMetricsServer serves /metrics on the given port in the background.
// The returned function shuts the server down.
func (m *Metrics) StartMetricsServer(port int) (func(), error) {
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid metrics port %d", port)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	go func() {
		slog.Info("Starting metrics server", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
