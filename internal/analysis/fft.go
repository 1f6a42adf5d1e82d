package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k| for the non-negative frequency bins of the
// mean-removed series, zero-padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	padded := make([]float64, dsputils.NextPowerOf2(len(centered)))
	copy(padded, centered)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin.
func DominantFrequency(data []float64, dt float64) (float64, error) {
	if len(data) < 4 {
		return 0, errors.New("analysis: need at least 4 samples")
	}
	if dt <= 0 {
		return 0, errors.New("analysis: sample spacing must be positive")
	}

	ps := PowerSpectrum(data)
	n := 2 * (len(ps) - 1)
	k := floats.MaxIdx(ps[1:]) + 1
	return float64(k) / (float64(n) * dt), nil
}
