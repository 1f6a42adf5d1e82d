package analysis

import (
	"errors"
	"math"
)

var ErrNoPeaks = errors.New("analysis: series has no interior maxima")

// LocalMaxima returns the indices of strict interior peaks of xs.
func LocalMaxima(xs []float64) []int {
	var idx []int
	for i := 1; i < len(xs)-1; i++ {
		if xs[i] > xs[i-1] && xs[i] > xs[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// MaxAmplitudeError is the largest relative gap between a peak of xs and amplitude.
func MaxAmplitudeError(xs []float64, amplitude float64) (float64, error) {
	if amplitude == 0 {
		return 0, errors.New("analysis: zero reference amplitude")
	}
	peaks := LocalMaxima(xs)
	if len(peaks) == 0 {
		return 0, ErrNoPeaks
	}

	worst := 0.0
	for _, i := range peaks {
		worst = math.Max(worst, math.Abs(xs[i]-amplitude)/math.Abs(amplitude))
	}
	return worst, nil
}
