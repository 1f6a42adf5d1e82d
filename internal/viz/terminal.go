package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/muesli/termenv"

	"github.com/san-kum/odecmp/internal/sim"
)

// Terminal draws series as an asciigraph chart. Colors are only emitted when
// out is a color-capable terminal.
type Terminal struct {
	out      io.Writer
	width    int
	height   int
	theme    Theme
	renderer *lipgloss.Renderer
	styles   styles
}

func NewTerminal(out io.Writer, width, height int) *Terminal {
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		out:      out,
		width:    width,
		height:   height,
		theme:    DefaultTheme,
		renderer: r,
		styles:   newStyles(r, DefaultTheme),
	}
}

func (t *Terminal) WithTheme(th Theme) *Terminal {
	t.theme = th
	t.styles = newStyles(t.renderer, th)
	return t
}

func (t *Terminal) colors() bool {
	return t.renderer.ColorProfile() != termenv.Ascii
}

func (t *Terminal) Render(title, xLabel, yLabel string, series ...Series) error {
	if err := validate(series); err != nil {
		return err
	}

	data := make([][]float64, len(series))
	legends := make([]string, len(series))
	for i, s := range series {
		data[i] = s.Values
		legends[i] = s.Label
	}

	opts := []asciigraph.Option{
		asciigraph.Height(t.height),
		asciigraph.Width(t.width),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("%s vs %s", yLabel, xLabel)),
		asciigraph.SeriesLegends(legends...),
	}
	if t.colors() && len(t.theme.Lines) > 0 {
		colors := make([]asciigraph.AnsiColor, len(series))
		for i := range colors {
			colors[i] = t.theme.Lines[i%len(t.theme.Lines)]
		}
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}

	times := series[0].Times
	var b strings.Builder
	b.WriteString(t.styles.header.Render(title) + "\n")
	b.WriteString(asciigraph.PlotMany(data, opts...) + "\n")
	b.WriteString(t.styles.subtle.Render(fmt.Sprintf("%s: %.3g .. %.3g (%d points)",
		xLabel, times[0], times[len(times)-1], len(times))) + "\n")

	_, err := io.WriteString(t.out, b.String())
	return err
}

// RenderComparison prints the error summary followed by the chart.
func (t *Terminal) RenderComparison(c *sim.Comparison) error {
	lines := []string{
		t.styles.metric(fmt.Sprintf("Mean squared error (MSE) between %s and %s", LabelAB4, LabelRK4), fmt.Sprintf("%g", c.MSE)),
		t.styles.metric("Max |AB4 - RK4|", fmt.Sprintf("%g", c.MaxDeviation)),
		t.styles.metric("Derivative evaluations", fmt.Sprintf("rk4=%d ab4=%d", c.Evaluations["rk4"], c.Evaluations["ab4"])),
		t.styles.metric("Grid", c.Grid.String()),
	}
	if len(c.ComponentMSE) > 1 {
		parts := make([]string, len(c.ComponentMSE))
		for i, v := range c.ComponentMSE {
			parts[i] = fmt.Sprintf("%g", v)
		}
		lines = append(lines, t.styles.metric("MSE per component", strings.Join(parts, ", ")))
	}

	summary := t.styles.box.Render(strings.Join(lines, "\n"))
	if _, err := fmt.Fprintln(t.out, summary); err != nil {
		return err
	}
	if err := t.Render(Title(c), XLabel, YLabel, FromComparison(c)...); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.out, t.styles.separator(t.width))
	return err
}

var _ sim.Renderer = (*Terminal)(nil)
