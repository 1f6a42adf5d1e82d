package integrators

import "github.com/san-kum/odecmp/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. It keeps no state
// between calls, so repeated runs with identical inputs are bit-identical.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

// Step advances s by one step of size h starting at time t.
func (r *RK4) Step(f dynamo.Derivative, t float64, s dynamo.State, h float64) (dynamo.State, error) {
	next, _, err := rk4Step(r.Name(), f, 0, t, s, h)
	return next, err
}

// Integrate returns one state per grid point, starting with s0.
func (r *RK4) Integrate(f dynamo.Derivative, s0 dynamo.State, grid dynamo.Grid) (*dynamo.Trajectory, error) {
	if err := prepare(f, s0, grid); err != nil {
		return nil, err
	}

	n := grid.Len()
	traj := dynamo.NewTrajectory(grid, s0)
	s := traj.At(0)

	for i := 0; i < n-1; i++ {
		next, _, err := rk4Step(r.Name(), f, i, grid.At(i), s, grid.H)
		if err != nil {
			return nil, err
		}
		traj.Append(next)
		s = next
	}

	return traj, nil
}

// rk4Step performs one RK4 step and also returns k1 = f(t, s), which the
// multistep scheme keeps as a history sample.
func rk4Step(method string, f dynamo.Derivative, step int, t float64, s dynamo.State, h float64) (next, k1 dynamo.State, err error) {
	half := h * 0.5

	k1, err = evaluate(method, f, step, t, s)
	if err != nil {
		return nil, nil, err
	}
	k2, err := evaluate(method, f, step, t+half, s.Add(k1.Scale(half)))
	if err != nil {
		return nil, nil, err
	}
	k3, err := evaluate(method, f, step, t+half, s.Add(k2.Scale(half)))
	if err != nil {
		return nil, nil, err
	}
	k4, err := evaluate(method, f, step, t+h, s.Add(k3.Scale(h)))
	if err != nil {
		return nil, nil, err
	}

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return s.Add(sum.Scale(h / 6.0)), k1, nil
}
