package dynamo

// Trajectory is the ordered list of states an integrator produced on a grid.
// Entries are only ever appended; an appended state is never modified.
type Trajectory struct {
	grid   Grid
	shape  Shape
	states []State
}

// NewTrajectory starts a trajectory at s0 with room for the whole grid.
func NewTrajectory(grid Grid, s0 State) *Trajectory {
	n := grid.Len()
	if n < 1 {
		n = 1
	}
	t := &Trajectory{
		grid:   grid,
		shape:  s0.Shape(),
		states: make([]State, 0, n),
	}
	t.states = append(t.states, Clone(s0))
	return t
}

// Append adds the next state in time.
func (t *Trajectory) Append(s State) {
	t.states = append(t.states, s)
}

func (t *Trajectory) Grid() Grid   { return t.grid }
func (t *Trajectory) Shape() Shape { return t.shape }
func (t *Trajectory) Len() int     { return len(t.states) }

// At returns the i-th state.
func (t *Trajectory) At(i int) State { return t.states[i] }

// Last returns the most recent state.
func (t *Trajectory) Last() State { return t.states[len(t.states)-1] }

// States returns a copy of the state list.
func (t *Trajectory) States() []State {
	out := make([]State, len(t.states))
	copy(out, t.states)
	return out
}

// Times returns the grid time of every stored state.
func (t *Trajectory) Times() []float64 {
	ts := make([]float64, len(t.states))
	for i := range ts {
		ts[i] = t.grid.At(i)
	}
	return ts
}

// Component extracts the k-th component of every state.
func (t *Trajectory) Component(k int) []float64 {
	out := make([]float64, len(t.states))
	for i, s := range t.states {
		out[i] = s.Component(k)
	}
	return out
}

// Primary is the reported component: the value itself for scalars,
// the position for pairs and the first variable for vectors.
func (t *Trajectory) Primary() []float64 {
	return t.Component(0)
}

// Dim is the number of components per state.
func (t *Trajectory) Dim() int {
	if len(t.states) == 0 {
		return 0
	}
	return t.states[0].Dim()
}
