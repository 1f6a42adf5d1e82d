// Package dynamo provides the core primitives shared by the integrators,
// the equation providers and the simulation driver.
//
// The package defines:
//
//   - [State]: a sealed sum type over [Scalar], [Pair] and [Vector]
//   - [Derivative]: the right-hand side of dX/dt = f(t, X)
//   - [Integrator]: a fixed-step scheme that walks a whole [Grid]
//   - [Grid]: the evenly spaced time points of a run
//   - [Trajectory]: the append-only history produced by one integrator
//   - [Family]: the equation family tag that picks the state shape
//
// # Example
//
//	grid, _ := dynamo.NewGrid(0, 10, 0.1)
//	f := dynamo.DerivativeFunc(func(_ float64, s dynamo.State) (dynamo.State, error) {
//	    return s.Scale(-1), nil
//	})
//	traj, err := integrators.NewRK4().Integrate(f, dynamo.Scalar(1), grid)
//
// # Errors
//
// Every failure is reported through one of three sentinels:
// [ErrInvalidConfiguration], [ErrDerivativeEvaluation] and [ErrShapeMismatch].
// Match them with errors.Is.
package dynamo
