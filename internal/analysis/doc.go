// Package analysis provides post-run checks on integrated trajectories.
//
// The tools answer questions the raw MSE cannot:
//
//   - [LocalMaxima], [MaxAmplitudeError]: does an oscillator keep its amplitude
//   - [DominantFrequency], [PowerSpectrum]: what frequency does a series carry
//   - [OscillatorReference]: the exact spring solution on the same grid
//   - [NewPhasePortrait]: component-vs-component plots of one or more runs
//
// # Amplitude Check
//
// An undamped oscillator started at rest keeps its amplitude, so every
// position peak should sit near x0:
//
//	errAmp, err := analysis.MaxAmplitudeError(traj.Primary(), 1.0)
//	if errAmp > 0.01 {
//	    // integrator is leaking or pumping energy
//	}
package analysis
