// Package metrics records batch-run metrics with Prometheus collectors and
// writes them out in the node-exporter textfile format.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrWriteMetrics wraps failures to persist the metrics textfile.
var ErrWriteMetrics = errors.New("write metrics failed")

// Manager owns the collectors of one run.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	rowsLoaded    *prometheus.CounterVec
	rowsEmitted   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	runDuration   prometheus.Gauge
	lastRunUnix   prometheus.Gauge
	runErrors     prometheus.Counter
}

// NewManager creates a Manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "iplstats",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	f := promauto.With(m.registry)
	m.rowsLoaded = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_loaded_total",
		Help:      "Source rows loaded, by dataset.",
	}, []string{"dataset"})
	m.rowsEmitted = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_emitted_total",
		Help:      "Rows written to output tables, by table.",
	}, []string{"table"})
	m.stageDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of pipeline stages.",
		Buckets:   m.histogramBuckets,
	}, []string{"stage"})
	m.runDuration = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run.",
	})
	m.lastRunUnix = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})
	m.runErrors = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "run_errors_total",
		Help:      "Runs that ended in an error.",
	})
	return m
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RowsLoaded counts n source rows for dataset.
func (m *Manager) RowsLoaded(dataset string, n int) {
	m.rowsLoaded.WithLabelValues(dataset).Add(float64(n))
}

// RowsEmitted counts n output rows for table.
func (m *Manager) RowsEmitted(table string, n int) {
	m.rowsEmitted.WithLabelValues(table).Add(float64(n))
}

// ObserveStage records how long stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Timer starts timing stage; call the returned func when it ends.
func (m *Manager) Timer(stage string) func() {
	start := time.Now()
	return func() { m.ObserveStage(stage, time.Since(start)) }
}

// RunFinished records the total duration and completion time of a run.
func (m *Manager) RunFinished(d time.Duration, err error) {
	m.runDuration.Set(d.Seconds())
	m.lastRunUnix.Set(float64(time.Now().Unix()))
	if err != nil {
		m.runErrors.Inc()
	}
}

// WriteTextfile writes every registered metric to path in the Prometheus text
// format, atomically replacing any previous file.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteMetrics, path, err)
	}
	return nil
}
