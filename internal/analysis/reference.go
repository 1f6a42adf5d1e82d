package analysis

import (
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/physics"
)

// OscillatorReference steps an exact undamped spring across grid and returns
// its positions, index-aligned with an integrated trajectory.
func OscillatorReference(osc physics.HarmonicOscillator, grid dynamo.Grid) ([]float64, error) {
	if err := osc.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	spring := harmonica.NewSpring(grid.H, osc.AngularFrequency(), 0)
	n := grid.Len()
	out := make([]float64, n)
	pos, vel := osc.X0, osc.V0
	for i := 0; i < n; i++ {
		out[i] = pos
		pos, vel = spring.Update(pos, vel, 0)
	}
	return out, nil
}
