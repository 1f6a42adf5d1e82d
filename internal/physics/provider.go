package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// Provider is an equation: a derivative plus everything needed to run it.
type Provider interface {
	dynamo.Derivative
	Family() dynamo.Family
	InitialState() dynamo.State
	Validate() error
	Params() map[string]float64
}

// ForFamily returns the default provider for a family.
func ForFamily(f dynamo.Family) (Provider, error) {
	switch f {
	case dynamo.FirstOrder:
		return NewDrag(), nil
	case dynamo.SecondOrder:
		return NewHarmonicOscillator(), nil
	case dynamo.System:
		return NewLinearSystem(), nil
	}
	return nil, dynamo.Invalid("no provider for family %q", f)
}

func checkFinite(params map[string]float64) error {
	for name, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.Invalid("%s must be finite, got %v", name, v)
		}
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if v <= 0 {
		return dynamo.Invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

func shapeError(model string, want dynamo.Shape, s dynamo.State) error {
	return fmt.Errorf("%s: %w: want %s, got %T", model, dynamo.ErrShapeMismatch, want, s)
}
