// Package observability holds the Prometheus metrics recorded by qcalc.
package observability

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/akhenakh/quantity"
)

// Collector bundles the Prometheus metrics of quantity evaluations.
type Collector struct {
	gatherer prometheus.Gatherer

	Operations *prometheus.CounterVec
	Durations  *prometheus.HistogramVec

	ScenarioFrames prometheus.Gauge
	ScenarioFailed prometheus.Gauge
}

// NewCollector registers the qcalc metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qcalc_operations_total",
		Help: "Total number of evaluated operations, labeled by operation and result.",
	}, []string{"op", "result"})
	ops, err := registerCounterVec(reg, ops, "qcalc_operations_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qcalc_operation_duration_seconds",
		Help:    "Operation evaluation time in seconds.",
		Buckets: []float64{1e-7, 1e-6, 1e-5, 1e-4, 1e-3, 0.01, 0.1},
	}, []string{"op"})
	durations, err = registerHistogramVec(reg, durations, "qcalc_operation_duration_seconds")
	if err != nil {
		return nil, err
	}

	frames, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qcalc_scenario_frames",
		Help: "Number of frames defined by the last loaded scenario.",
	}), "qcalc_scenario_frames")
	if err != nil {
		return nil, err
	}
	failed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qcalc_scenario_failed_steps",
		Help: "Number of failed steps in the last evaluated scenario.",
	}), "qcalc_scenario_failed_steps")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		Operations:     ops,
		Durations:      durations,
		ScenarioFrames: frames,
		ScenarioFailed: failed,
	}, nil
}

// Observe records one evaluation of op that started at start and ended
// with err.
func (c *Collector) Observe(op string, start time.Time, err error) {
	if c == nil {
		return
	}
	if c.Operations != nil {
		c.Operations.WithLabelValues(op, Result(err)).Inc()
	}
	if c.Durations != nil {
		c.Durations.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// SetScenarioCounts updates the scenario gauges.
func (c *Collector) SetScenarioCounts(frames, failed int) {
	if c == nil {
		return
	}
	if c.ScenarioFrames != nil {
		c.ScenarioFrames.Set(float64(frames))
	}
	if c.ScenarioFailed != nil {
		c.ScenarioFailed.Set(float64(failed))
	}
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

var results = []struct {
	err   error
	label string
}{
	{quantity.ErrNotSet, "not_set"},
	{quantity.ErrUndefinedOperation, "undefined_operation"},
	{quantity.ErrDivideByZero, "divide_by_zero"},
	{quantity.ErrWrongCoordinateBase, "wrong_coordinate_base"},
	{quantity.ErrIllegalState, "illegal_state"},
	{quantity.ErrOutOfRange, "out_of_range"},
	{quantity.ErrUnknownUnit, "unknown_unit"},
	{quantity.ErrDuplicateFrame, "duplicate_frame"},
}

// Result maps an evaluation error to the result label: "ok" for nil, the
// error kind for quantity errors and "error" otherwise.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	for _, r := range results {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "error"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
