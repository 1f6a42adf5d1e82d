package integrators

import (
	"errors"
	"fmt"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// prepare validates everything an integration run needs before the first step.
func prepare(f dynamo.Derivative, s0 dynamo.State, grid dynamo.Grid) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	if f == nil {
		return dynamo.Invalid("nil derivative")
	}
	if s0 == nil {
		return dynamo.Invalid("nil initial state")
	}
	if !s0.IsValid() {
		return dynamo.Invalid("initial state %v is not finite", s0.Components())
	}
	return nil
}

// evaluate calls f and checks that the result is finite and shaped like s.
func evaluate(method string, f dynamo.Derivative, step int, t float64, s dynamo.State) (dynamo.State, error) {
	ds, err := f.Derive(t, s)
	if err != nil {
		if errors.Is(err, dynamo.ErrShapeMismatch) {
			return nil, fmt.Errorf("%s: step %d: %w", method, step, err)
		}
		return nil, &dynamo.EvaluationError{Method: method, Step: step, Time: t, Wrapped: err}
	}
	if err := dynamo.CheckShape(s, ds); err != nil {
		return nil, fmt.Errorf("%s: step %d: %w", method, step, err)
	}
	if !ds.IsValid() {
		return nil, &dynamo.EvaluationError{Method: method, Step: step, Time: t, Wrapped: dynamo.ErrNonFinite}
	}
	return ds, nil
}
