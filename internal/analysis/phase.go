package analysis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/odecmp/internal/dynamo"
)

// PhasePortrait holds two components of one or more trajectories.
type PhasePortrait struct {
	XIndex, YIndex int
	Curves         []Curve
}

// Curve is one trajectory projected onto the portrait plane.
type Curve struct {
	Label  string
	Marker rune
	X, Y   []float64
}

var markers = []rune{'•', '∘', '+', 'x'}

// NewPhasePortrait projects each trajectory onto components (xIdx, yIdx).
// Labels are matched to trajectories by position.
func NewPhasePortrait(xIdx, yIdx int, labels []string, trajs ...*dynamo.Trajectory) (*PhasePortrait, error) {
	p := &PhasePortrait{XIndex: xIdx, YIndex: yIdx}
	for i, tr := range trajs {
		if tr == nil {
			return nil, fmt.Errorf("analysis: trajectory %d is nil", i)
		}
		if xIdx < 0 || yIdx < 0 || xIdx >= tr.Dim() || yIdx >= tr.Dim() {
			return nil, fmt.Errorf("analysis: components (%d, %d) out of range for %s[%d]",
				xIdx, yIdx, tr.Shape(), tr.Dim())
		}
		label := fmt.Sprintf("curve %d", i)
		if i < len(labels) {
			label = labels[i]
		}
		p.Curves = append(p.Curves, Curve{
			Label:  label,
			Marker: markers[i%len(markers)],
			X:      tr.Component(xIdx),
			Y:      tr.Component(yIdx),
		})
	}
	return p, nil
}

// ASCII draws the portrait on a width x height rune canvas. Later curves
// are drawn over earlier ones.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Curves) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := floats.Min(p.Curves[0].X), floats.Max(p.Curves[0].X)
	minY, maxY := floats.Min(p.Curves[0].Y), floats.Max(p.Curves[0].Y)
	for _, c := range p.Curves[1:] {
		minX, maxX = min(minX, floats.Min(c.X)), max(maxX, floats.Max(c.X))
		minY, maxY = min(minY, floats.Min(c.Y)), max(maxY, floats.Max(c.Y))
	}

	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			canvas[r][c] = '─'
		}
	}

	for _, c := range p.Curves {
		for i := range c.X {
			r, k := row(c.Y[i]), col(c.X[i])
			if r >= 0 && r < height && k >= 0 && k < width {
				canvas[r][k] = c.Marker
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	for _, c := range p.Curves {
		fmt.Fprintf(&sb, "%c %s\n", c.Marker, c.Label)
	}
	return sb.String()
}

// pad widens [lo, hi] by 10% on each side; a flat range becomes width 1.
func pad(lo, hi float64) (float64, float64) {
	r := hi - lo
	if r == 0 {
		r = 1
	}
	return lo - 0.1*r, hi + 0.1*r
}
