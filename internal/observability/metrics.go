// Package observability exposes integration counters as Prometheus metrics.
package observability

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Run outcomes used for the runs counter.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Collector bundles the Prometheus metrics recorded by the simulation driver.
// A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	DerivativeEvaluations *prometheus.CounterVec
	Steps                 *prometheus.CounterVec
	RunDuration           *prometheus.HistogramVec
	Runs                  *prometheus.CounterVec
	LastMSE               prometheus.Gauge
}

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	evals, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odecmp_derivative_evaluations_total",
		Help: "Derivative evaluations performed, labeled by integration method.",
	}, []string{"method"}), "odecmp_derivative_evaluations_total")
	if err != nil {
		return nil, err
	}

	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odecmp_integration_steps_total",
		Help: "Grid steps advanced, labeled by integration method.",
	}, []string{"method"}), "odecmp_integration_steps_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odecmp_integration_duration_seconds",
		Help:    "Wall time of a single integrator run in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method"}), "odecmp_integration_duration_seconds")
	if err != nil {
		return nil, err
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odecmp_runs_total",
		Help: "Comparison runs, labeled by equation family and outcome.",
	}, []string{"family", "outcome"}), "odecmp_runs_total")
	if err != nil {
		return nil, err
	}

	mse, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "odecmp_last_mse",
		Help: "Mean squared error between RK4 and AB4 in the most recent run.",
	}), "odecmp_last_mse")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:              gatherer,
		DerivativeEvaluations: evals,
		Steps:                 steps,
		RunDuration:           durations,
		Runs:                  runs,
		LastMSE:               mse,
	}, nil
}

// ObserveIntegration records one finished integrator run.
func (c *Collector) ObserveIntegration(method string, steps, evaluations int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Steps.WithLabelValues(method).Add(float64(steps))
	c.DerivativeEvaluations.WithLabelValues(method).Add(float64(evaluations))
	c.RunDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RecordRun counts a comparison run; the MSE gauge only moves on success.
func (c *Collector) RecordRun(family, outcome string, mse float64) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(family, outcome).Inc()
	if outcome == OutcomeOK {
		c.LastMSE.Set(mse)
	}
}

// WriteText dumps every gathered metric family in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	if c == nil {
		return nil
	}
	families, err := c.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
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
