package physics

import (
	"math"

	"github.com/san-kum/odecmp/internal/dynamo"
)

const DefaultStiffness = 1.0

// HarmonicOscillator is x'' = -(k/m) x reduced to the pair (x, v).
type HarmonicOscillator struct {
	K  float64
	M  float64
	X0 float64
	V0 float64
}

func NewHarmonicOscillator() HarmonicOscillator {
	return HarmonicOscillator{K: DefaultStiffness, M: 1, X0: 1}
}

func (o HarmonicOscillator) Family() dynamo.Family { return dynamo.SecondOrder }

func (o HarmonicOscillator) InitialState() dynamo.State {
	return dynamo.Pair{X: o.X0, V: o.V0}
}

// Accel is the second-order form a(x, v). Velocity is unused for an undamped spring.
func (o HarmonicOscillator) Accel(x, _ float64) float64 {
	return -o.K / o.M * x
}

func (o HarmonicOscillator) Derive(_ float64, s dynamo.State) (dynamo.State, error) {
	p, ok := s.(dynamo.Pair)
	if !ok {
		return nil, shapeError("oscillator", dynamo.ShapePair, s)
	}
	return dynamo.Pair{X: p.V, V: o.Accel(p.X, p.V)}, nil
}

func (o HarmonicOscillator) Energy(s dynamo.State) float64 {
	// KE = 0.5 * m * v^2
	// PE = 0.5 * k * x^2
	p, ok := s.(dynamo.Pair)
	if !ok {
		return math.NaN()
	}
	return 0.5*o.M*p.V*p.V + 0.5*o.K*p.X*p.X
}

func (o HarmonicOscillator) AngularFrequency() float64 {
	return math.Sqrt(o.K / o.M)
}

func (o HarmonicOscillator) Validate() error {
	if err := checkFinite(o.Params()); err != nil {
		return err
	}
	if err := checkPositive("spring constant", o.K); err != nil {
		return err
	}
	return checkPositive("mass", o.M)
}

func (o HarmonicOscillator) Params() map[string]float64 {
	return map[string]float64{
		"spring": o.K,
		"mass":   o.M,
		"x0":     o.X0,
		"v0":     o.V0,
	}
}
