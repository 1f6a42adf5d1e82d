// Package sim drives both integrators over one grid and compares them.
package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/integrators"
	"github.com/san-kum/odecmp/internal/metrics"
	"github.com/san-kum/odecmp/internal/observability"
	"github.com/san-kum/odecmp/internal/physics"
)

// Driver runs RK4 and AB4 back to back. It holds no per-run state, so one
// Driver can serve any number of runs.
type Driver struct {
	rk4       dynamo.Integrator
	ab4       dynamo.Integrator
	log       logrus.FieldLogger
	collector *observability.Collector
	renderers []Renderer
}

type Option func(*Driver)

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

func WithCollector(c *observability.Collector) Option {
	return func(d *Driver) { d.collector = c }
}

// WithRenderers appends renderers; they run in the order given.
func WithRenderers(r ...Renderer) Option {
	return func(d *Driver) { d.renderers = append(d.renderers, r...) }
}

func New(opts ...Option) *Driver {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	d := &Driver{
		rk4: integrators.NewRK4(),
		ab4: integrators.NewAdamsBashforth4(),
		log: quiet,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// InitialState is the default initial condition of a family, taken from
// the family's default provider.
func InitialState(f dynamo.Family) (dynamo.State, error) {
	p, err := physics.ForFamily(f)
	if err != nil {
		return nil, err
	}
	return p.InitialState(), nil
}

// Run integrates f from the family's default initial condition.
func (d *Driver) Run(f dynamo.Derivative, family dynamo.Family, grid dynamo.Grid) (*Comparison, error) {
	s0, err := InitialState(family)
	if err != nil {
		return nil, err
	}
	return d.run(f, family, s0, grid)
}

// systemDim is the component count of the system family.
const systemDim = 2

// RunFrom integrates f from s0; the family follows from the shape of s0.
func (d *Driver) RunFrom(f dynamo.Derivative, s0 dynamo.State, grid dynamo.Grid) (*Comparison, error) {
	if s0 == nil {
		return nil, dynamo.Invalid("nil initial state")
	}
	family, err := dynamo.FamilyOf(s0.Shape())
	if err != nil {
		return nil, err
	}
	if family == dynamo.System && s0.Dim() != systemDim {
		return nil, fmt.Errorf("%w: %s needs %d components, got %d",
			dynamo.ErrShapeMismatch, family, systemDim, s0.Dim())
	}
	return d.run(f, family, s0, grid)
}

// run returns the comparison even when a renderer fails, together with
// the wrapped renderer error.
func (d *Driver) run(f dynamo.Derivative, family dynamo.Family, s0 dynamo.State, grid dynamo.Grid) (*Comparison, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, dynamo.Invalid("nil derivative")
	}

	log := d.log.WithFields(logrus.Fields{
		"family": family,
		"points": grid.Len(),
		"h":      grid.H,
	})
	start := time.Now()

	c, err := d.compare(f, family, s0, grid)
	if err != nil {
		d.collector.RecordRun(string(family), observability.OutcomeFailed, 0)
		log.WithError(err).Error("comparison failed")
		return nil, err
	}
	c.Elapsed = time.Since(start)

	d.collector.RecordRun(string(family), observability.OutcomeOK, c.MSE)
	log.WithFields(logrus.Fields{
		"mse":     c.MSE,
		"max_dev": c.MaxDeviation,
		"elapsed": c.Elapsed,
	}).Info("comparison finished")

	for _, r := range d.renderers {
		if err := r.RenderComparison(c); err != nil {
			return c, fmt.Errorf("render %s comparison: %w", family, err)
		}
	}
	return c, nil
}

func (d *Driver) compare(f dynamo.Derivative, family dynamo.Family, s0 dynamo.State, grid dynamo.Grid) (*Comparison, error) {
	c := &Comparison{
		Family:      family,
		Grid:        grid,
		Evaluations: make(map[string]int, 2),
	}

	var err error
	if c.RK4, err = d.integrate(d.rk4, f, s0, grid, c.Evaluations); err != nil {
		return nil, err
	}
	if c.AB4, err = d.integrate(d.ab4, f, s0, grid, c.Evaluations); err != nil {
		return nil, err
	}

	rk, ab := c.RK4.Primary(), c.AB4.Primary()
	if c.MSE, err = metrics.MSE(rk, ab); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	if c.MaxDeviation, err = metrics.MaxAbsDeviation(rk, ab); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	if c.ComponentMSE, err = metrics.ComponentMSE(c.RK4, c.AB4); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return c, nil
}

func (d *Driver) integrate(integ dynamo.Integrator, f dynamo.Derivative, s0 dynamo.State, grid dynamo.Grid, evals map[string]int) (*dynamo.Trajectory, error) {
	counted := &countingDerivative{f: f}
	start := time.Now()

	traj, err := integ.Integrate(counted, s0, grid)
	evals[integ.Name()] = counted.calls
	if err != nil {
		return nil, err
	}

	d.collector.ObserveIntegration(integ.Name(), traj.Len()-1, counted.calls, time.Since(start))
	d.log.WithFields(logrus.Fields{
		"method":      integ.Name(),
		"evaluations": counted.calls,
	}).Debug("integration done")
	return traj, nil
}

// countingDerivative counts calls to the wrapped derivative.
type countingDerivative struct {
	f     dynamo.Derivative
	calls int
}

func (c *countingDerivative) Derive(t float64, s dynamo.State) (dynamo.State, error) {
	c.calls++
	return c.f.Derive(t, s)
}
