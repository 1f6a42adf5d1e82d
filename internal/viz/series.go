package viz

import (
	"fmt"

	"github.com/san-kum/odecmp/internal/sim"
)

const (
	LabelAB4 = "Adams-Bashforth"
	LabelRK4 = "RK4"

	XLabel = "Time (s)"
	YLabel = "Value"
)

// Series is one labelled line: Values[i] is sampled at Times[i].
type Series struct {
	Label  string
	Times  []float64
	Values []float64
}

// Renderer draws labelled series against a shared x axis.
type Renderer interface {
	Render(title, xLabel, yLabel string, series ...Series) error
}

// FromComparison returns the primary component of both runs, AB4 first.
func FromComparison(c *sim.Comparison) []Series {
	return []Series{
		{Label: LabelAB4, Times: c.AB4.Times(), Values: c.AB4.Primary()},
		{Label: LabelRK4, Times: c.RK4.Times(), Values: c.RK4.Primary()},
	}
}

// Title names the plot after the equation family.
func Title(c *sim.Comparison) string {
	return fmt.Sprintf("Simulation of %s with %s and %s", c.Family.Title(), LabelAB4, LabelRK4)
}

func validate(series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("viz: no series to render")
	}
	for _, s := range series {
		if len(s.Values) == 0 {
			return fmt.Errorf("viz: series %q is empty", s.Label)
		}
		if len(s.Times) != len(s.Values) {
			return fmt.Errorf("viz: series %q has %d times for %d values", s.Label, len(s.Times), len(s.Values))
		}
	}
	return nil
}
