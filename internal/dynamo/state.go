package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Shape identifies a State variant.
type Shape int

const (
	ShapeScalar Shape = iota + 1
	ShapePair
	ShapeVector
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapePair:
		return "pair"
	case ShapeVector:
		return "vector"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// State is the value of the dependent variable at one time point.
//
// Add expects an operand of the same shape and dimension; callers check that
// once with CheckShape instead of on every operation. States are values:
// Add and Scale always return a fresh State and never modify the receiver.
type State interface {
	Shape() Shape
	Dim() int
	Add(other State) State
	Scale(factor float64) State
	Component(i int) float64
	Components() []float64
	IsValid() bool

	sealed()
}

// Scalar is the state of a first-order equation.
type Scalar float64

func (s Scalar) Shape() Shape { return ShapeScalar }
func (s Scalar) Dim() int     { return 1 }

func (s Scalar) Add(other State) State {
	return s + other.(Scalar)
}

func (s Scalar) Scale(factor float64) State {
	return Scalar(float64(s) * factor)
}

func (s Scalar) Component(i int) float64 {
	if i != 0 {
		panic(fmt.Sprintf("dynamo: component %d out of range for scalar", i))
	}
	return float64(s)
}

func (s Scalar) Components() []float64 { return []float64{float64(s)} }

func (s Scalar) IsValid() bool { return finite(float64(s)) }

func (Scalar) sealed() {}

// Pair is the (position, velocity) state of a second-order equation.
type Pair struct {
	X, V float64
}

func (p Pair) Shape() Shape { return ShapePair }
func (p Pair) Dim() int     { return 2 }

func (p Pair) Add(other State) State {
	o := other.(Pair)
	return Pair{X: p.X + o.X, V: p.V + o.V}
}

func (p Pair) Scale(factor float64) State {
	return Pair{X: p.X * factor, V: p.V * factor}
}

func (p Pair) Component(i int) float64 {
	switch i {
	case 0:
		return p.X
	case 1:
		return p.V
	}
	panic(fmt.Sprintf("dynamo: component %d out of range for pair", i))
}

func (p Pair) Components() []float64 { return []float64{p.X, p.V} }

func (p Pair) IsValid() bool { return finite(p.X) && finite(p.V) }

func (Pair) sealed() {}

// Vector is the state of a coupled system.
type Vector []float64

func (v Vector) Shape() Shape { return ShapeVector }
func (v Vector) Dim() int     { return len(v) }

func (v Vector) Add(other State) State {
	out := make(Vector, len(v))
	floats.AddTo(out, v, other.(Vector))
	return out
}

func (v Vector) Scale(factor float64) State {
	out := make(Vector, len(v))
	floats.ScaleTo(out, factor, v)
	return out
}

func (v Vector) Component(i int) float64 { return v[i] }

func (v Vector) Components() []float64 {
	c := make([]float64, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if !finite(x) {
			return false
		}
	}
	return true
}

func (Vector) sealed() {}

// Clone returns a copy of s that shares no memory with it.
func Clone(s State) State {
	if v, ok := s.(Vector); ok {
		return Vector(v.Components())
	}
	return s
}

// CheckShape reports ErrShapeMismatch unless got has the shape and
// dimension of want.
func CheckShape(want, got State) error {
	if want == nil || got == nil {
		return fmt.Errorf("%w: nil state", ErrShapeMismatch)
	}
	if want.Shape() != got.Shape() || want.Dim() != got.Dim() {
		return fmt.Errorf("%w: want %s[%d], got %s[%d]",
			ErrShapeMismatch, want.Shape(), want.Dim(), got.Shape(), got.Dim())
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
