package sim

import (
	"time"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// Renderer receives every successful comparison.
type Renderer interface {
	RenderComparison(c *Comparison) error
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(c *Comparison) error

func (f RendererFunc) RenderComparison(c *Comparison) error { return f(c) }

// Comparison is the result of integrating one equation with both methods on
// the same grid.
type Comparison struct {
	Family dynamo.Family
	Grid   dynamo.Grid
	RK4    *dynamo.Trajectory
	AB4    *dynamo.Trajectory

	// MSE is taken over the primary component.
	MSE          float64
	ComponentMSE []float64
	MaxDeviation float64

	// Evaluations counts derivative calls per method name.
	Evaluations map[string]int
	Elapsed     time.Duration
}
