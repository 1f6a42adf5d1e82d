package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/odecmp/internal/config"
	"github.com/san-kum/odecmp/internal/dynamo"
)

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(input), &out, &errOut)
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"first order", []string{"run", "1", "--no-plot"}, []string{"Mean squared error", "terminal velocity"}},
		{"second order phase", []string{"run", "second_order", "--no-plot", "--phase"}, []string{"energy drift (ab4)", "Adams-Bashforth", "RK4"}},
		{"system", []string{"run", "3", "--no-plot", "--tf", "2"}, []string{"fixed point", "eigenvalues"}},
		{"preset", []string{"run", "2", "--preset", "stiff", "--no-plot"}, []string{"dominant frequency"}},
		{"terminal plot", []string{"run", "1", "--width", "40", "--height", "8"}, []string{"Adams-Bashforth", "Derivative evaluations"}},
		{"metrics", []string{"run", "1", "--no-plot", "--metrics"}, []string{"odecmp_derivative_evaluations_total", "odecmp_runs_total"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown family", []string{"run", "4", "--no-plot"}},
		{"step too large", []string{"run", "1", "--no-plot", "--h", "20"}},
		{"negative mass", []string{"run", "1", "--no-plot", "--mass", "-1"}},
		{"unknown preset", []string{"run", "1", "--no-plot", "--preset", "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errors.Is(err, dynamo.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestRunCommand_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	out, err := execute(t, "", "run", "2", "--no-plot", "--png", path)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("png not written: %v", err)
	}
	if !strings.Contains(out, "plot saved to") {
		t.Errorf("output = %q", out)
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := config.DefaultConfig()
	cfg.Family = string(dynamo.SecondOrder)
	cfg.Tf = 3
	cfg.Oscillator.K = 4
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	root := a.rootCmd()
	run, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	a.bind(run.Flags())
	for flag, value := range map[string]string{"config": path, "tf": "6", "x0": "2"} {
		if err := run.Flags().Set(flag, value); err != nil {
			t.Fatal(err)
		}
	}

	got, err := a.loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.Family != string(dynamo.SecondOrder) {
		t.Errorf("family = %s, want second_order", got.Family)
	}
	if got.Tf != 6 {
		t.Errorf("tf = %v, want flag value 6", got.Tf)
	}
	if got.Oscillator.K != 4 {
		t.Errorf("spring = %v, want file value 4", got.Oscillator.K)
	}
	if got.Oscillator.X0 != 2 {
		t.Errorf("x0 = %v, want 2", got.Oscillator.X0)
	}
	if got.System.X0 != config.DefaultConfig().System.X0 {
		t.Errorf("x0 leaked into the system family: %v", got.System.X0)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ODECMP_TF", "5")
	t.Setenv("ODECMP_OSC_MASS", "2")

	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

	got, err := a.loadConfig([]string{"2"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.Tf != 5 || got.Oscillator.M != 2 {
		t.Errorf("tf = %v, osc mass = %v, want 5 and 2", got.Tf, got.Oscillator.M)
	}
}

func TestMenuPlain(t *testing.T) {
	out, err := execute(t, "3\n", "menu", "--plain")
	if err != nil {
		t.Fatalf("menu failed: %v", err)
	}
	for _, w := range []string{"Select the type of differential equation:", "system of ODEs", "Mean squared error"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q", w)
		}
	}

	if _, err := execute(t, "9\n", "menu", "--plain"); err == nil {
		t.Error("expected an error for an invalid option")
	}
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "", "presets", "system")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.ListPresets(string(dynamo.System)) {
		if !strings.Contains(out, name) {
			t.Errorf("output missing preset %q", name)
		}
	}
	if strings.Contains(out, "skydiver") {
		t.Error("listed presets of another family")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odecmp.yaml")

	if _, err := execute(t, "", "config", "init", path); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written config invalid: %v", err)
	}

	if _, err := execute(t, "", "config", "init", path); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if _, err := execute(t, "", "config", "init", path, "--force"); err != nil {
		t.Errorf("--force failed: %v", err)
	}
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "", "sweep", "2", "--steps", "0.1,0.05,0.025", "--tol", "1e-3")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	for _, w := range []string{"second_order", "0.025", "observed order", "coarsest step within 0.001"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}

	if _, err := execute(t, "", "sweep", "1", "--steps", "0.1,50"); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
