package observability

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhenakh/quantity"
)

func TestObserveRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.Observe("multiply", time.Now(), nil)
	c.Observe("multiply", time.Now(), nil)
	_, divErr := quantity.Divide(quantity.Meter.Of(1), quantity.Second.Of(0))
	c.Observe("divide", time.Now(), divErr)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Operations.WithLabelValues("multiply", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Operations.WithLabelValues("divide", "divide_by_zero")))
	assert.Equal(t, uint64(2), histogramSampleCount(t, reg, "qcalc_operation_duration_seconds", map[string]string{"op": "multiply"}))
	assert.Equal(t, uint64(1), histogramSampleCount(t, reg, "qcalc_operation_duration_seconds", map[string]string{"op": "divide"}))
}

func TestResult(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{quantity.ErrNotSet, "not_set"},
		{fmt.Errorf("step 2: %w", quantity.ErrUndefinedOperation), "undefined_operation"},
		{&quantity.OperationError{Op: "angle", Err: quantity.ErrWrongCoordinateBase}, "wrong_coordinate_base"},
		{quantity.ErrUnknownUnit, "unknown_unit"},
		{errors.New("file not found"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Result(tt.err), "%v", tt.err)
	}
}

func TestNewCollectorReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewCollector(reg)
	require.NoError(t, err)
	b, err := NewCollector(reg)
	require.NoError(t, err)
	assert.Same(t, a.Operations, b.Operations)

	a.Observe("sqrt", time.Now(), nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(b.Operations.WithLabelValues("sqrt", "ok")))
}

func TestNewCollectorIncompatible(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qcalc_operations_total",
		Help: "wrong type",
	}))
	_, err := NewCollector(reg)
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.Observe("convert", time.Now(), quantity.ErrNotSet)
	c.SetScenarioCounts(3, 1)

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, `qcalc_operations_total{op="convert",result="not_set"} 1`)
	assert.Contains(t, out, "qcalc_operation_duration_seconds_count")
	assert.Contains(t, out, "qcalc_scenario_frames 3")
	assert.Contains(t, out, "qcalc_scenario_failed_steps 1")
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Observe("multiply", time.Now(), nil)
	c.SetScenarioCounts(1, 1)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	require.NoError(t, err)
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
