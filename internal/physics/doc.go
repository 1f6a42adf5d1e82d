// Package physics provides the equation providers integrated by odecmp.
//
// Each provider is an immutable parameter struct that implements
// [dynamo.Derivative] with a value receiver:
//
//   - [Drag]: falling body with quadratic drag (first order, scalar state)
//   - [HarmonicOscillator]: undamped spring reduced to (x, v) (second order)
//   - [LinearSystem]: coupled two-variable linear system (vector state)
//
// Parameters are checked by Validate before a run; invalid values wrap
// [dynamo.ErrInvalidConfiguration].
//
//	osc := physics.NewHarmonicOscillator()
//	osc.K = 4
//	if err := osc.Validate(); err != nil {
//	    return err
//	}
package physics
