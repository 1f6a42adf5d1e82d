package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/odecmp/internal/analysis"
	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/experiment"
	"github.com/san-kum/odecmp/internal/observability"
	"github.com/san-kum/odecmp/internal/sim"
	"github.com/san-kum/odecmp/internal/viz"
)

type runOptions struct {
	noPlot  bool
	phase   bool
	metrics bool
	theme   string
}

func (a *app) runSimulation(cmd *cobra.Command, args []string) error {
	a.bind(cmd.Flags())
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	return a.execute(cfg, runOptions{
		noPlot:  a.v.GetBool("no-plot"),
		phase:   a.v.GetBool("phase"),
		metrics: a.v.GetBool("metrics"),
		theme:   a.v.GetString("theme"),
	})
}

// loadConfig layers defaults, the config file, the preset, the family
// argument and finally explicitly set flags.
func (a *app) loadConfig(args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	family, err := cfg.FamilyTag()
	if len(args) == 1 {
		family, err = dynamo.ParseFamily(args[0])
	}
	if err != nil {
		return nil, err
	}

	if name := a.v.GetString("preset"); name != "" {
		p := config.GetPreset(string(family), name)
		if p == nil {
			return nil, dynamo.Invalid("unknown preset %q for %s (available: %v)",
				name, family, config.ListPresets(string(family)))
		}
		cfg = p
	}
	cfg.Family = string(family)

	a.applyOverrides(cfg, family)
	return cfg, nil
}

func (a *app) applyOverrides(cfg *config.Config, family dynamo.Family) {
	floats := map[string]*float64{
		"t0":       &cfg.T0,
		"tf":       &cfg.Tf,
		"h":        &cfg.H,
		"mass":     &cfg.Drag.Mass,
		"gravity":  &cfg.Drag.Gravity,
		"drag":     &cfg.Drag.K,
		"spring":   &cfg.Oscillator.K,
		"osc-mass": &cfg.Oscillator.M,
		"a":        &cfg.System.A,
		"b":        &cfg.System.B,
		"c":        &cfg.System.C,
		"d":        &cfg.System.D,
		"y0":       &cfg.System.Y0,
	}
	switch family {
	case dynamo.FirstOrder:
		floats["v0"] = &cfg.Drag.V0
	case dynamo.SecondOrder:
		floats["x0"] = &cfg.Oscillator.X0
		floats["v0"] = &cfg.Oscillator.V0
	case dynamo.System:
		floats["x0"] = &cfg.System.X0
	}

	for key, dst := range floats {
		if a.v.IsSet(key) {
			*dst = a.v.GetFloat64(key)
		}
	}
	if a.v.IsSet("width") {
		cfg.Plot.Width = a.v.GetInt("width")
	}
	if a.v.IsSet("height") {
		cfg.Plot.Height = a.v.GetInt("height")
	}
	if a.v.IsSet("png") {
		cfg.Plot.PNG = a.v.GetString("png")
	}
}

// execute runs the experiment and prints the comparison, the findings and,
// on request, the phase portrait and metrics.
func (a *app) execute(cfg *config.Config, opts runOptions) error {
	var collector *observability.Collector
	if opts.metrics {
		c, err := observability.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		collector = c
	}

	var renderers []sim.Renderer
	if !opts.noPlot {
		term := viz.NewTerminal(a.out, cfg.Plot.Width, cfg.Plot.Height).WithTheme(viz.GetTheme(opts.theme))
		renderers = append(renderers, term)
	}
	if cfg.Plot.PNG != "" {
		renderers = append(renderers, viz.NewPNG(cfg.Plot.PNG))
	}

	driver := sim.New(
		sim.WithLogger(a.log),
		sim.WithCollector(collector),
		sim.WithRenderers(renderers...),
	)

	res, err := experiment.New(cfg, nil).Run(driver)
	if res != nil && res.Comparison != nil {
		a.report(res, cfg, opts)
	}
	if err != nil {
		return err
	}

	if cfg.Plot.PNG != "" {
		fmt.Fprintf(a.out, "plot saved to %s\n", cfg.Plot.PNG)
	}
	if opts.metrics {
		fmt.Fprintln(a.out)
		if err := collector.WriteText(a.out); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) report(res *experiment.Result, cfg *config.Config, opts runOptions) {
	c := res.Comparison
	if opts.noPlot {
		fmt.Fprintf(a.out, "Mean squared error (MSE) between Adams-Bashforth and RK4: %.6e\n", c.MSE)
	}

	if len(res.Findings) > 0 {
		w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		for _, f := range res.Findings {
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Value)
		}
		w.Flush()
	}

	if !opts.phase || c.Family == dynamo.FirstOrder {
		return
	}
	portrait, err := analysis.NewPhasePortrait(0, 1, []string{viz.LabelAB4, viz.LabelRK4}, c.AB4, c.RK4)
	if err != nil {
		a.log.WithError(err).Warn("phase portrait unavailable")
		return
	}
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, portrait.ASCII(cfg.Plot.Width, cfg.Plot.Height))
}
