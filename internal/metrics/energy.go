package metrics

import (
	"math"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// EnergyFunc returns the total energy of a state.
type EnergyFunc func(dynamo.State) float64

// EnergyDrift tracks the largest relative departure from the first observed energy.
type EnergyDrift struct {
	energy        EnergyFunc
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(energy EnergyFunc) *EnergyDrift {
	return &EnergyDrift{energy: energy}
}

func (e *EnergyDrift) Observe(s dynamo.State) {
	energy := e.energy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// MaxEnergyDrift observes every state of traj and returns the worst drift.
func MaxEnergyDrift(traj *dynamo.Trajectory, energy EnergyFunc) float64 {
	d := NewEnergyDrift(energy)
	for i := 0; i < traj.Len(); i++ {
		d.Observe(traj.At(i))
	}
	return d.Value()
}
