package physics

import (
	"math"

	"github.com/san-kum/odecmp/internal/dynamo"
)

const (
	DefaultMass    = 70.0
	DefaultGravity = 9.81
	DefaultDragK   = 0.25
)

// Drag is a falling body with quadratic air resistance:
//
//	dv/dt = (m*g - k*v^2) / m
type Drag struct {
	Mass    float64
	Gravity float64
	K       float64
	V0      float64
}

func NewDrag() Drag {
	return Drag{
		Mass:    DefaultMass,
		Gravity: DefaultGravity,
		K:       DefaultDragK,
	}
}

func (d Drag) Family() dynamo.Family { return dynamo.FirstOrder }

func (d Drag) InitialState() dynamo.State { return dynamo.Scalar(d.V0) }

func (d Drag) Derive(_ float64, s dynamo.State) (dynamo.State, error) {
	v, ok := s.(dynamo.Scalar)
	if !ok {
		return nil, shapeError("drag", dynamo.ShapeScalar, s)
	}
	vf := float64(v)
	return dynamo.Scalar((d.Mass*d.Gravity - d.K*vf*vf) / d.Mass), nil
}

func (d Drag) Validate() error {
	if err := checkFinite(d.Params()); err != nil {
		return err
	}
	if err := checkPositive("mass", d.Mass); err != nil {
		return err
	}
	if d.K < 0 {
		return dynamo.Invalid("drag coefficient must be non-negative, got %v", d.K)
	}
	return nil
}

// TerminalVelocity is sqrt(m*g/k). It is +Inf without drag.
func (d Drag) TerminalVelocity() float64 {
	if d.K == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(d.Mass * d.Gravity / d.K)
}

func (d Drag) Params() map[string]float64 {
	return map[string]float64{
		"mass":    d.Mass,
		"gravity": d.Gravity,
		"drag":    d.K,
		"v0":      d.V0,
	}
}
