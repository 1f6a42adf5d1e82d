// Package experiment turns a configuration into a comparison run and a
// short report of family-specific checks.
package experiment

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/odecmp/internal/analysis"
	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/metrics"
	"github.com/san-kum/odecmp/internal/physics"
	"github.com/san-kum/odecmp/internal/sim"
)

type Experiment struct {
	cfg      *config.Config
	registry *Registry
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

// Result pairs the comparison with the provider that produced it.
type Result struct {
	Provider   physics.Provider
	Comparison *sim.Comparison
	Findings   []Finding
}

// Finding is one named line of the post-run report.
type Finding struct {
	Name  string
	Value string
}

// Run validates the configuration and integrates the configured family from
// the provider's initial state.
func (e *Experiment) Run(driver *sim.Driver) (*Result, error) {
	if e.cfg == nil {
		return nil, dynamo.Invalid("no configuration")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	family, err := e.cfg.FamilyTag()
	if err != nil {
		return nil, err
	}
	provider, err := e.registry.Provider(family, e.cfg)
	if err != nil {
		return nil, err
	}
	grid, err := e.cfg.Grid()
	if err != nil {
		return nil, err
	}

	c, err := driver.RunFrom(provider, provider.InitialState(), grid)
	res := &Result{Provider: provider, Comparison: c}
	if c != nil {
		res.Findings = Analyze(provider, c)
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

// Analyze runs the checks that make sense for the provider's family.
func Analyze(p physics.Provider, c *sim.Comparison) []Finding {
	var out []Finding
	add := func(name, format string, args ...any) {
		out = append(out, Finding{Name: name, Value: fmt.Sprintf(format, args...)})
	}

	switch p := p.(type) {
	case physics.Drag:
		vt := p.TerminalVelocity()
		last := c.RK4.Last().Component(0)
		add("terminal velocity", "%.4f", vt)
		add("final velocity (rk4)", "%.4f (%.2f%% of terminal)", last, 100*last/vt)

	case physics.HarmonicOscillator:
		for _, run := range []struct {
			name string
			traj *dynamo.Trajectory
		}{{"rk4", c.RK4}, {"ab4", c.AB4}} {
			if amp, err := analysis.MaxAmplitudeError(run.traj.Primary(), amplitude(p)); err == nil {
				add("peak amplitude error ("+run.name+")", "%.4f%%", 100*amp)
			} else if errors.Is(err, analysis.ErrNoPeaks) {
				add("peak amplitude error ("+run.name+")", "no full period on grid")
			}
			add("energy drift ("+run.name+")", "%.3e", metrics.MaxEnergyDrift(run.traj, p.Energy))
		}
		if ref, err := analysis.OscillatorReference(p, c.Grid); err == nil {
			if dev, err := metrics.MaxAbsDeviation(ref, c.AB4.Primary()); err == nil {
				add("max deviation from exact (ab4)", "%.3e", dev)
			}
		}
		if f, err := analysis.DominantFrequency(c.RK4.Primary(), c.Grid.H); err == nil {
			add("dominant frequency", "%.4f Hz (exact %.4f Hz)", f, p.AngularFrequency()/(2*math.Pi))
		}

	case physics.LinearSystem:
		add("fixed point", "%s", p.Classify())
		if vals, err := p.Eigenvalues(); err == nil {
			add("eigenvalues", "%.4g, %.4g", vals[0], vals[1])
		}
		if stable, err := p.Stable(); err == nil {
			add("asymptotically stable", "%t", stable)
		}
	}
	return out
}

// amplitude of an undamped spring started at (x0, v0).
func amplitude(p physics.HarmonicOscillator) float64 {
	w := p.AngularFrequency()
	return math.Hypot(p.X0, p.V0/w)
}
