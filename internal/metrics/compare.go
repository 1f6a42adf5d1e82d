package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// MSE is the mean of the squared element-wise differences of a and b.
func MSE(a, b []float64) (float64, error) {
	if err := checkSeries(a, b); err != nil {
		return 0, err
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// ComponentMSE returns the MSE of every state component of two trajectories.
func ComponentMSE(ta, tb *dynamo.Trajectory) ([]float64, error) {
	if err := checkTrajectories(ta, tb); err != nil {
		return nil, err
	}
	out := make([]float64, ta.Dim())
	for k := range out {
		mse, err := MSE(ta.Component(k), tb.Component(k))
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", k, err)
		}
		out[k] = mse
	}
	return out, nil
}

// MaxAbsDeviation is the largest |a[i]-b[i]|.
func MaxAbsDeviation(a, b []float64) (float64, error) {
	if err := checkSeries(a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

func checkSeries(a, b []float64) error {
	if len(a) == 0 || len(b) == 0 {
		return fmt.Errorf("metrics: empty series")
	}
	if len(a) != len(b) {
		return fmt.Errorf("metrics: series lengths differ: %d vs %d", len(a), len(b))
	}
	return nil
}

func checkTrajectories(ta, tb *dynamo.Trajectory) error {
	if ta == nil || tb == nil {
		return fmt.Errorf("metrics: nil trajectory")
	}
	if ta.Shape() != tb.Shape() || ta.Dim() != tb.Dim() {
		return fmt.Errorf("metrics: %w: %s[%d] vs %s[%d]",
			dynamo.ErrShapeMismatch, ta.Shape(), ta.Dim(), tb.Shape(), tb.Dim())
	}
	return nil
}
