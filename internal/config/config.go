package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/odecmp/internal/dynamo"
	"github.com/san-kum/odecmp/internal/physics"
)

const (
	DefaultT0     = 0.0
	DefaultTf     = 10.0
	DefaultH      = 0.1
	DefaultWidth  = 70
	DefaultHeight = 15
)

type Config struct {
	Family     string           `yaml:"family"`
	T0         float64          `yaml:"t0"`
	Tf         float64          `yaml:"tf"`
	H          float64          `yaml:"h"`
	Drag       DragConfig       `yaml:"drag"`
	Oscillator OscillatorConfig `yaml:"oscillator"`
	System     SystemConfig     `yaml:"system"`
	Plot       PlotConfig       `yaml:"plot"`
}

type DragConfig struct {
	Mass    float64 `yaml:"mass"`
	Gravity float64 `yaml:"gravity"`
	K       float64 `yaml:"k"`
	V0      float64 `yaml:"v0"`
}

type OscillatorConfig struct {
	K  float64 `yaml:"k"`
	M  float64 `yaml:"m"`
	X0 float64 `yaml:"x0"`
	V0 float64 `yaml:"v0"`
}

type SystemConfig struct {
	A  float64 `yaml:"a"`
	B  float64 `yaml:"b"`
	C  float64 `yaml:"c"`
	D  float64 `yaml:"d"`
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
}

type PlotConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	PNG    string `yaml:"png,omitempty"`
}

func DefaultConfig() *Config {
	drag := physics.NewDrag()
	osc := physics.NewHarmonicOscillator()
	sys := physics.NewLinearSystem()

	return &Config{
		Family: string(dynamo.FirstOrder),
		T0:     DefaultT0,
		Tf:     DefaultTf,
		H:      DefaultH,
		Drag: DragConfig{
			Mass: drag.Mass, Gravity: drag.Gravity, K: drag.K, V0: drag.V0,
		},
		Oscillator: OscillatorConfig{
			K: osc.K, M: osc.M, X0: osc.X0, V0: osc.V0,
		},
		System: SystemConfig{
			A: sys.A, B: sys.B, C: sys.C, D: sys.D, X0: sys.X0, Y0: sys.Y0,
		},
		Plot: PlotConfig{Width: DefaultWidth, Height: DefaultHeight},
	}
}

// Load reads a YAML file, or an INI file when the path ends in .ini.
// Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return loadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	r := iniReader{file: file}

	cfg.Family = r.readString("run", "family", cfg.Family)
	r.readFloat("run", "t0", &cfg.T0)
	r.readFloat("run", "tf", &cfg.Tf)
	r.readFloat("run", "h", &cfg.H)

	r.readFloat("drag", "mass", &cfg.Drag.Mass)
	r.readFloat("drag", "gravity", &cfg.Drag.Gravity)
	r.readFloat("drag", "k", &cfg.Drag.K)
	r.readFloat("drag", "v0", &cfg.Drag.V0)

	r.readFloat("oscillator", "k", &cfg.Oscillator.K)
	r.readFloat("oscillator", "m", &cfg.Oscillator.M)
	r.readFloat("oscillator", "x0", &cfg.Oscillator.X0)
	r.readFloat("oscillator", "v0", &cfg.Oscillator.V0)

	r.readFloat("system", "a", &cfg.System.A)
	r.readFloat("system", "b", &cfg.System.B)
	r.readFloat("system", "c", &cfg.System.C)
	r.readFloat("system", "d", &cfg.System.D)
	r.readFloat("system", "x0", &cfg.System.X0)
	r.readFloat("system", "y0", &cfg.System.Y0)

	r.readInt("plot", "width", &cfg.Plot.Width)
	r.readInt("plot", "height", &cfg.Plot.Height)
	cfg.Plot.PNG = r.readString("plot", "png", cfg.Plot.PNG)

	if r.err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, r.err)
	}
	return cfg, nil
}

// iniReader keeps the first parse error. Absent keys leave the default.
type iniReader struct {
	file *ini.File
	err  error
}

func (r *iniReader) key(section, name string) *ini.Key {
	sec := r.file.Section(section)
	if r.err != nil || !sec.HasKey(name) {
		return nil
	}
	return sec.Key(name)
}

func (r *iniReader) readFloat(section, name string, dst *float64) {
	k := r.key(section, name)
	if k == nil {
		return
	}
	v, err := k.Float64()
	if err != nil {
		r.err = dynamo.Invalid("%s.%s: %v", section, name, err)
		return
	}
	*dst = v
}

func (r *iniReader) readInt(section, name string, dst *int) {
	k := r.key(section, name)
	if k == nil {
		return
	}
	v, err := k.Int()
	if err != nil {
		r.err = dynamo.Invalid("%s.%s: %v", section, name, err)
		return
	}
	*dst = v
}

func (r *iniReader) readString(section, name, def string) string {
	if k := r.key(section, name); k != nil {
		return k.String()
	}
	return def
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FamilyTag parses the configured family.
func (c *Config) FamilyTag() (dynamo.Family, error) {
	return dynamo.ParseFamily(c.Family)
}

func (c *Config) Grid() (dynamo.Grid, error) {
	return dynamo.NewGrid(c.T0, c.Tf, c.H)
}

// Provider builds the equation for the configured family.
func (c *Config) Provider() (physics.Provider, error) {
	f, err := c.FamilyTag()
	if err != nil {
		return nil, err
	}
	return c.ProviderFor(f)
}

// ProviderFor builds the equation for f from this config's parameters.
func (c *Config) ProviderFor(f dynamo.Family) (physics.Provider, error) {
	var p physics.Provider
	switch f {
	case dynamo.FirstOrder:
		p = physics.Drag{Mass: c.Drag.Mass, Gravity: c.Drag.Gravity, K: c.Drag.K, V0: c.Drag.V0}
	case dynamo.SecondOrder:
		p = physics.HarmonicOscillator{K: c.Oscillator.K, M: c.Oscillator.M, X0: c.Oscillator.X0, V0: c.Oscillator.V0}
	case dynamo.System:
		p = physics.LinearSystem{
			A: c.System.A, B: c.System.B, C: c.System.C, D: c.System.D,
			X0: c.System.X0, Y0: c.System.Y0,
		}
	default:
		return nil, dynamo.Invalid("unknown equation family %q", f)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s parameters: %w", f, err)
	}
	return p, nil
}

// Validate checks the grid, the family and the selected provider.
func (c *Config) Validate() error {
	if _, err := c.Grid(); err != nil {
		return err
	}
	if _, err := c.Provider(); err != nil {
		return err
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return dynamo.Invalid("plot size must be positive, got %dx%d", c.Plot.Width, c.Plot.Height)
	}
	return nil
}
