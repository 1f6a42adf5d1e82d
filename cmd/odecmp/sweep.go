package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/odecmp/internal/observability"
	"github.com/san-kum/odecmp/internal/optim"
	"github.com/san-kum/odecmp/internal/sim"
)

func (a *app) runSweep(cmd *cobra.Command, args []string) error {
	a.bind(cmd.Flags())
	cfg, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	steps, err := cmd.Flags().GetFloat64Slice("steps")
	if err != nil {
		return err
	}

	var collector *observability.Collector
	if a.v.GetBool("metrics") {
		if collector, err = observability.NewCollector(prometheus.NewRegistry()); err != nil {
			return err
		}
	}
	driver := sim.New(sim.WithLogger(a.log), sim.WithCollector(collector))

	res, err := optim.NewGridSearch(steps).Search(cmd.Context(), cfg, driver)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s, t in [%g, %g]\n", cfg.Family, cfg.T0, cfg.Tf)
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "h\tsteps\tMSE\tmax |AB4 - RK4|\t")
	for _, p := range res.Points {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t\n", p.H, p.Steps, p.MSE, p.MaxDeviation)
	}
	w.Flush()

	if !math.IsNaN(res.Order) {
		fmt.Fprintf(a.out, "observed order: %.2f\n", res.Order)
	}
	tol := a.v.GetFloat64("tol")
	if p, ok := res.Coarsest(tol); ok {
		fmt.Fprintf(a.out, "coarsest step within %g: h=%g\n", tol, p.H)
	} else {
		fmt.Fprintf(a.out, "no step within %g\n", tol)
	}

	if collector != nil {
		fmt.Fprintln(a.out)
		return collector.WriteText(a.out)
	}
	return nil
}
