package physics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// LinearSystem is the coupled pair
//
//	dx/dt = a x + b y
//	dy/dt = c x + d y
type LinearSystem struct {
	A, B, C, D float64
	X0, Y0     float64
}

func NewLinearSystem() LinearSystem {
	return LinearSystem{A: 1, B: 1, C: 1, D: 1, X0: 1, Y0: 1}
}

// NewReciprocalFeedback builds dx/dt = a*y, dy/dt = b*x.
func NewReciprocalFeedback(a, b float64) LinearSystem {
	return LinearSystem{B: a, C: b, X0: 1, Y0: 1}
}

func (l LinearSystem) Family() dynamo.Family { return dynamo.System }

func (l LinearSystem) InitialState() dynamo.State {
	return dynamo.Vector{l.X0, l.Y0}
}

func (l LinearSystem) Matrix() *mat.Dense {
	return mat.NewDense(2, 2, []float64{l.A, l.B, l.C, l.D})
}

func (l LinearSystem) Derive(_ float64, s dynamo.State) (dynamo.State, error) {
	v, ok := s.(dynamo.Vector)
	if !ok || len(v) != 2 {
		return nil, shapeError("linear system", dynamo.ShapeVector, s)
	}
	var out mat.VecDense
	out.MulVec(l.Matrix(), mat.NewVecDense(2, []float64{v[0], v[1]}))
	return dynamo.Vector{out.AtVec(0), out.AtVec(1)}, nil
}

// Eigenvalues of the coefficient matrix.
func (l LinearSystem) Eigenvalues() ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(l.Matrix(), mat.EigenNone); !ok {
		return nil, dynamo.Invalid("eigen decomposition did not converge")
	}
	return eig.Values(nil), nil
}

// Classify names the fixed point at the origin from the trace and determinant.
func (l LinearSystem) Classify() string {
	const eps = 1e-12
	tr := l.A + l.D
	det := l.A*l.D - l.B*l.C
	disc := tr*tr - 4*det

	switch {
	case math.Abs(det) < eps:
		return "degenerate"
	case det < 0:
		return "saddle"
	case math.Abs(tr) < eps:
		return "center"
	case disc >= 0:
		return "node"
	default:
		return "spiral"
	}
}

// Stable reports whether every eigenvalue has a negative real part.
func (l LinearSystem) Stable() (bool, error) {
	vals, err := l.Eigenvalues()
	if err != nil {
		return false, err
	}
	for _, v := range vals {
		if real(v) >= 0 || cmplx.IsNaN(v) {
			return false, nil
		}
	}
	return true, nil
}

func (l LinearSystem) Validate() error {
	return checkFinite(l.Params())
}

func (l LinearSystem) Params() map[string]float64 {
	return map[string]float64{
		"a":  l.A,
		"b":  l.B,
		"c":  l.C,
		"d":  l.D,
		"x0": l.X0,
		"y0": l.Y0,
	}
}
