package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/odecmp/internal/dynamo"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []float64
		want    float64
		wantErr bool
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, false},
		{"constant offset", []float64{1, 2, 3}, []float64{2, 3, 4}, 1, false},
		{"mixed", []float64{0, 0}, []float64{1, -3}, 5, false},
		{"empty", nil, nil, 0, true},
		{"length mismatch", []float64{1}, []float64{1, 2}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MSE = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaxAbsDeviation(t *testing.T) {
	got, err := MaxAbsDeviation([]float64{0, 1, 2}, []float64{0.5, 1, -1})
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("MaxAbsDeviation = %v, want 3", got)
	}

	if _, err := MaxAbsDeviation(nil, []float64{1}); err == nil {
		t.Error("expected error for empty series")
	}
}

func pairTrajectory(t *testing.T, states ...dynamo.Pair) *dynamo.Trajectory {
	t.Helper()
	grid, err := dynamo.NewGrid(0, float64(len(states)), 1)
	if err != nil {
		t.Fatal(err)
	}
	traj := dynamo.NewTrajectory(grid, states[0])
	for _, s := range states[1:] {
		traj.Append(s)
	}
	return traj
}

func TestComponentMSE(t *testing.T) {
	a := pairTrajectory(t, dynamo.Pair{X: 1, V: 0}, dynamo.Pair{X: 2, V: 0})
	b := pairTrajectory(t, dynamo.Pair{X: 1, V: 2}, dynamo.Pair{X: 0, V: 0})

	got, err := ComponentMSE(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Errorf("ComponentMSE = %v, want [2 2]", got)
	}
}

func TestComponentMSE_ShapeMismatch(t *testing.T) {
	a := pairTrajectory(t, dynamo.Pair{X: 1}, dynamo.Pair{X: 2})
	grid, _ := dynamo.NewGrid(0, 2, 1)
	b := dynamo.NewTrajectory(grid, dynamo.Scalar(1))
	b.Append(dynamo.Scalar(2))

	if _, err := ComponentMSE(a, b); !errors.Is(err, dynamo.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := ComponentMSE(nil, b); err == nil {
		t.Error("expected error for nil trajectory")
	}
}
