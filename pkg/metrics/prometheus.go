// Package metrics provides Prometheus metrics for export runs
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocx_exports_total",
			Help: "Total number of export runs",
		},
		[]string{"format", "status"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocx_export_duration_seconds",
			Help:    "Time taken by an export run",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
		[]string{"format"},
	)

	AssetsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocx_assets_exported_total",
			Help: "Total number of assets written by exports",
		},
		[]string{"format"},
	)

	// Storage metrics
	StorageWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocx_storage_writes_total",
			Help: "Total number of storage operations",
		},
		[]string{"sink", "op", "status"},
	)

	BytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocx_storage_bytes_written_total",
			Help: "Total bytes written to storage",
		},
		[]string{"sink", "op"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocx_errors_total",
			Help: "Total number of export errors by kind",
		},
		[]string{"format", "kind"},
	)
)

// ExportMetrics records metrics for one export format
type ExportMetrics struct {
	format string
}

// NewExportMetrics creates a metrics recorder for a format
func NewExportMetrics(format string) *ExportMetrics {
	return &ExportMetrics{format: format}
}

// RecordExport records the outcome of an export run
func (m *ExportMetrics) RecordExport(status string, assets int, duration time.Duration) {
	ExportsTotal.WithLabelValues(m.format, status).Inc()
	ExportDuration.WithLabelValues(m.format).Observe(duration.Seconds())
	AssetsExported.WithLabelValues(m.format).Add(float64(assets))
}

// RecordError records a failed export by error kind
func (m *ExportMetrics) RecordError(kind string) {
	ErrorsTotal.WithLabelValues(m.format, kind).Inc()
}

// StorageMetrics records storage operations for one sink type
type StorageMetrics struct {
	sink string
}

func NewStorageMetrics(sink string) *StorageMetrics {
	return &StorageMetrics{sink: sink}
}

// RecordWrite records a storage operation and its payload size
func (m *StorageMetrics) RecordWrite(op string, bytes int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StorageWrites.WithLabelValues(m.sink, op, status).Inc()
	if err == nil && bytes > 0 {
		BytesWritten.WithLabelValues(m.sink, op).Add(float64(bytes))
	}
}

// WriteTextfile dumps the default registry in the node_exporter textfile format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
