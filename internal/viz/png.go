package viz

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/odecmp/internal/sim"
)

const (
	DefaultPNGWidth  = 8 * vg.Inch
	DefaultPNGHeight = 4 * vg.Inch
)

// PNG saves series as a line plot. The image format follows the file
// extension, so .svg or .pdf work too.
type PNG struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

func NewPNG(path string) *PNG {
	return &PNG{Path: path, Width: DefaultPNGWidth, Height: DefaultPNGHeight}
}

func (p *PNG) Render(title, xLabel, yLabel string, series ...Series) error {
	if err := validate(series); err != nil {
		return err
	}
	if p.Path == "" {
		return fmt.Errorf("viz: no output path")
	}

	plt := plot.New()
	plt.Title.Text = title
	plt.X.Label.Text = xLabel
	plt.Y.Label.Text = yLabel
	plt.Legend.Top = true
	plt.Add(plotter.NewGrid())

	lines := make([]interface{}, 0, 2*len(series))
	for _, s := range series {
		xys := make(plotter.XYs, len(s.Values))
		for i := range s.Values {
			xys[i].X = s.Times[i]
			xys[i].Y = s.Values[i]
		}
		lines = append(lines, s.Label, xys)
	}
	if err := plotutil.AddLines(plt, lines...); err != nil {
		return fmt.Errorf("viz: add lines: %w", err)
	}

	if err := plt.Save(p.Width, p.Height, p.Path); err != nil {
		return fmt.Errorf("viz: save %s: %w", p.Path, err)
	}
	return nil
}

func (p *PNG) RenderComparison(c *sim.Comparison) error {
	return p.Render(Title(c), XLabel, YLabel, FromComparison(c)...)
}

var _ sim.Renderer = (*PNG)(nil)
