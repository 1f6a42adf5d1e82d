package viz

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/physics"
	"github.com/san-kum/odecmp/internal/sim"
)

func comparison(t *testing.T) *sim.Comparison {
	t.Helper()
	grid, err := dynamo.NewGrid(0, 10, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	c, err := sim.New().Run(physics.NewHarmonicOscillator(), dynamo.SecondOrder, grid)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return c
}

func TestFromComparison(t *testing.T) {
	c := comparison(t)
	series := FromComparison(c)

	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	if series[0].Label != LabelAB4 || series[1].Label != LabelRK4 {
		t.Errorf("labels = %s, %s", series[0].Label, series[1].Label)
	}
	for _, s := range series {
		if len(s.Times) != c.Grid.Len() || len(s.Values) != c.Grid.Len() {
			t.Errorf("%s: %d times, %d values, want %d", s.Label, len(s.Times), len(s.Values), c.Grid.Len())
		}
	}
	if series[1].Values[0] != 1 {
		t.Errorf("rk4 starts at %v, want 1", series[1].Values[0])
	}
}

func TestTitle(t *testing.T) {
	c := &sim.Comparison{Family: dynamo.System}
	want := "Simulation of system of ODEs with Adams-Bashforth and RK4"
	if got := Title(c); got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
}

func TestTerminalRender(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 40, 8)

	series := []Series{
		{Label: "up", Times: []float64{0, 1, 2}, Values: []float64{0, 1, 2}},
		{Label: "down", Times: []float64{0, 1, 2}, Values: []float64{2, 1, 0}},
	}
	if err := term.Render("lines", "t", "y", series...); err != nil {
		t.Fatalf("Render: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"lines", "up", "down", "y vs t", "3 points"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTerminalRenderComparison(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, 60, 10).WithTheme(GetTheme("ocean"))

	if err := term.RenderComparison(comparison(t)); err != nil {
		t.Fatalf("RenderComparison: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Mean squared error (MSE) between Adams-Bashforth and RK4",
		"Simulation of second-order ODE",
		LabelAB4,
		LabelRK4,
		"MSE per component",
		"rk4=396",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderRejectsBadSeries(t *testing.T) {
	term := NewTerminal(&bytes.Buffer{}, 40, 8)
	png := NewPNG(filepath.Join(t.TempDir(), "x.png"))

	tests := []struct {
		name   string
		series []Series
	}{
		{"none", nil},
		{"empty", []Series{{Label: "a"}}},
		{"ragged", []Series{{Label: "a", Times: []float64{0}, Values: []float64{1, 2}}}},
	}

	for _, tt := range tests {
		for _, r := range []Renderer{term, png} {
			if err := r.Render("t", "x", "y", tt.series...); err == nil {
				t.Errorf("%s: %T accepted bad series", tt.name, r)
			}
		}
	}
}

func TestPNGRenderComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comparison.png")

	if err := NewPNG(path).RenderComparison(comparison(t)); err != nil {
		t.Fatalf("RenderComparison: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG file")
	}
}

func TestPNGNeedsPath(t *testing.T) {
	p := &PNG{Width: DefaultPNGWidth, Height: DefaultPNGHeight}
	err := p.Render("t", "x", "y", Series{Label: "a", Times: []float64{0, 1}, Values: []float64{0, 1}})
	if err == nil {
		t.Error("expected error without output path")
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("retro").Name != "retro" {
		t.Error("expected retro theme")
	}
	if GetTheme("nope").Name != DefaultTheme.Name {
		t.Error("expected fallback to default theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}
