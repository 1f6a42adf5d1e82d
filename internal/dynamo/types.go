package dynamo

import (
	"fmt"
	"math"
	"strings"
)

// Derivative is the right-hand side of an ODE. Implementations must be pure:
// the same (t, s) always yields the same rate of change, in the shape of s.
type Derivative interface {
	Derive(t float64, s State) (State, error)
}

// DerivativeFunc adapts a plain function to Derivative.
type DerivativeFunc func(t float64, s State) (State, error)

func (f DerivativeFunc) Derive(t float64, s State) (State, error) {
	return f(t, s)
}

// Integrator walks a derivative across every point of a grid.
type Integrator interface {
	Name() string
	Integrate(f Derivative, s0 State, grid Grid) (*Trajectory, error)
}

// Family tags the kind of equation, which fixes the state shape.
type Family string

const (
	FirstOrder  Family = "first_order"
	SecondOrder Family = "second_order"
	System      Family = "system"
)

// Families lists the known families in menu order.
var Families = []Family{FirstOrder, SecondOrder, System}

// ParseFamily accepts a family tag or its menu number.
func ParseFamily(s string) (Family, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch key {
	case "1", string(FirstOrder):
		return FirstOrder, nil
	case "2", string(SecondOrder):
		return SecondOrder, nil
	case "3", string(System):
		return System, nil
	}
	return "", Invalid("unknown equation family %q", s)
}

// Validate reports ErrInvalidConfiguration for unknown tags.
func (f Family) Validate() error {
	_, err := f.Shape()
	return err
}

// Shape returns the state shape used by the family.
func (f Family) Shape() (Shape, error) {
	switch f {
	case FirstOrder:
		return ShapeScalar, nil
	case SecondOrder:
		return ShapePair, nil
	case System:
		return ShapeVector, nil
	}
	return 0, Invalid("unknown equation family %q", string(f))
}

// Title is the human-readable name used in menus and plots.
func (f Family) Title() string {
	switch f {
	case FirstOrder:
		return "first-order ODE"
	case SecondOrder:
		return "second-order ODE"
	case System:
		return "system of ODEs"
	}
	return string(f)
}

// FamilyOf maps a state shape back to its family.
func FamilyOf(shape Shape) (Family, error) {
	switch shape {
	case ShapeScalar:
		return FirstOrder, nil
	case ShapePair:
		return SecondOrder, nil
	case ShapeVector:
		return System, nil
	}
	return "", Invalid("no family for shape %s", shape)
}

// MaxGridPoints bounds the number of points a grid may have.
const MaxGridPoints = 1 << 24

// Grid is the evenly spaced set of times t0, t0+h, ... strictly below tf.
type Grid struct {
	T0 float64
	Tf float64
	H  float64
}

// NewGrid builds and validates a grid.
func NewGrid(t0, tf, h float64) (Grid, error) {
	g := Grid{T0: t0, Tf: tf, H: h}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// Validate rejects grids that would produce fewer than two points or more
// than MaxGridPoints.
func (g Grid) Validate() error {
	if !finite(g.T0) || !finite(g.Tf) || !finite(g.H) {
		return Invalid("grid values must be finite (t0=%v, tf=%v, h=%v)", g.T0, g.Tf, g.H)
	}
	if g.H <= 0 {
		return Invalid("step size must be positive, got %g", g.H)
	}
	if g.Tf <= g.T0 {
		return Invalid("tf (%g) must be greater than t0 (%g)", g.Tf, g.T0)
	}
	if g.H >= g.Tf-g.T0 {
		return Invalid("step size %g must be smaller than tf-t0 = %g", g.H, g.Tf-g.T0)
	}
	if q := (g.Tf - g.T0) / g.H; !(q <= MaxGridPoints) {
		return Invalid("step size %g gives %g points over [%g, %g), limit is %d", g.H, q, g.T0, g.Tf, MaxGridPoints)
	}
	if n := g.Len(); n < 2 {
		return Invalid("grid [%g, %g) with h=%g has %d point(s), need at least 2", g.T0, g.Tf, g.H, n)
	}
	return nil
}

// Len is floor((tf-t0)/h). Quotients within rounding noise of an integer
// snap to it so that, for example, 10/0.1 yields exactly 100 points.
func (g Grid) Len() int {
	q := (g.Tf - g.T0) / g.H
	r := math.Round(q)
	if math.Abs(q-r) <= 1e-9*math.Max(1, r) {
		return int(r)
	}
	return int(math.Floor(q))
}

// At returns the i-th grid time. It is computed, not accumulated.
func (g Grid) At(i int) float64 {
	return g.T0 + float64(i)*g.H
}

// Times returns every grid time.
func (g Grid) Times() []float64 {
	n := g.Len()
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = g.At(i)
	}
	return ts
}

func (g Grid) String() string {
	return fmt.Sprintf("[%g, %g) h=%g (%d points)", g.T0, g.Tf, g.H, g.Len())
}
