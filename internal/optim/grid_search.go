// Package optim searches over step sizes to see how the Adams-Bashforth and
// RK4 trajectories converge toward each other as h shrinks.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/experiment"
	"github.com/san-kum/odecmp/internal/sim"
)

// DefaultSteps halves h from 0.2 down to 0.0125.
var DefaultSteps = []float64{0.2, 0.1, 0.05, 0.025, 0.0125}

type GridSearch struct {
	steps []float64
}

// NewGridSearch sorts the step sizes from coarsest to finest.
func NewGridSearch(steps []float64) *GridSearch {
	s := append([]float64(nil), steps...)
	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	return &GridSearch{steps: s}
}

// Point is the outcome of one comparison run.
type Point struct {
	H            float64
	Steps        int
	MSE          float64
	MaxDeviation float64
}

type Result struct {
	Points []Point
	// Order is the fitted slope of log(max deviation) against log(h), or NaN
	// when fewer than two points have a nonzero deviation.
	Order float64
}

// Search runs cfg once per step size. cfg itself is not modified.
func (g *GridSearch) Search(ctx context.Context, cfg *config.Config, driver *sim.Driver) (*Result, error) {
	if len(g.steps) == 0 {
		return nil, dynamo.Invalid("no step sizes to search")
	}

	res := &Result{}
	for _, h := range g.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c := *cfg
		c.H = h
		run, err := experiment.New(&c, nil).Run(driver)
		if err != nil {
			return nil, fmt.Errorf("h=%g: %w", h, err)
		}
		res.Points = append(res.Points, Point{
			H:            h,
			Steps:        run.Comparison.Grid.Len(),
			MSE:          run.Comparison.MSE,
			MaxDeviation: run.Comparison.MaxDeviation,
		})
	}
	res.Order = fitOrder(res.Points)
	return res, nil
}

// Coarsest returns the largest step whose max deviation is within tol.
func (r *Result) Coarsest(tol float64) (Point, bool) {
	for _, p := range r.Points {
		if p.MaxDeviation <= tol {
			return p, true
		}
	}
	return Point{}, false
}

func fitOrder(points []Point) float64 {
	var xs, ys []float64
	for _, p := range points {
		if p.MaxDeviation > 0 && !math.IsInf(p.MaxDeviation, 0) {
			xs = append(xs, math.Log(p.H))
			ys = append(ys, math.Log(p.MaxDeviation))
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}
