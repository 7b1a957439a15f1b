package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample returns the value of the first series of name whose labels include
// the given pairs, or -1 when absent.
func sample(t *testing.T, reg *prometheus.Registry, name string, labels ...string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if !hasLabels(m, labels) {
				continue
			}
			switch {
			case m.Counter != nil:
				return m.GetCounter().GetValue()
			case m.Gauge != nil:
				return m.GetGauge().GetValue()
			case m.Histogram != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return -1
}

func hasLabels(m *dto.Metric, pairs []string) bool {
	for i := 0; i+1 < len(pairs); i += 2 {
		found := false
		for _, lp := range m.GetLabel() {
			if lp.GetName() == pairs[i] && lp.GetValue() == pairs[i+1] {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestManager_Counters(t *testing.T) {
	m := NewManager()

	m.RowsLoaded("matches", 10)
	m.RowsLoaded("matches", 5)
	m.RowsEmitted("win_ratio", 3)

	assert.Equal(t, 15.0, sample(t, m.Registry(), "iplstats_rows_loaded_total", "dataset", "matches"))
	assert.Equal(t, 3.0, sample(t, m.Registry(), "iplstats_rows_emitted_total", "table", "win_ratio"))
	assert.Equal(t, -1.0, sample(t, m.Registry(), "iplstats_rows_loaded_total", "dataset", "deliveries"))
}

func TestManager_RunFinished(t *testing.T) {
	m := NewManager()
	m.RunFinished(1500*time.Millisecond, nil)
	assert.Equal(t, 1.5, sample(t, m.Registry(), "iplstats_run_duration_seconds"))
	assert.Equal(t, 0.0, sample(t, m.Registry(), "iplstats_run_errors_total"))

	m.RunFinished(time.Second, errors.New("boom"))
	assert.Equal(t, 1.0, sample(t, m.Registry(), "iplstats_run_errors_total"))
	assert.Greater(t, sample(t, m.Registry(), "iplstats_last_run_timestamp_seconds"), 0.0)
}

func TestManager_TimerObservesStage(t *testing.T) {
	m := NewManager()
	done := m.Timer("load")
	done()
	assert.Equal(t, 1.0, sample(t, m.Registry(), "iplstats_stage_duration_seconds", "stage", "load"))
}

func TestManager_CustomOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(WithNamespace("test"), WithRegistry(reg), WithHistogramBuckets([]float64{1}))
	m.RowsLoaded("auction", 1)

	assert.Equal(t, 1.0, sample(t, reg, "test_rows_loaded_total", "dataset", "auction"))
	assert.Same(t, reg, m.Registry())
}

func TestManager_WriteTextfile(t *testing.T) {
	m := NewManager()
	m.RowsLoaded("matches", 7)

	path := filepath.Join(t.TempDir(), "iplstats.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `iplstats_rows_loaded_total{dataset="matches"} 7`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.ErrorIs(t, err, ErrWriteMetrics)
}
