package config

import (
	"sort"

	"github.com/san-kum/odecmp/internal/dynamo"
)

func preset(family dynamo.Family, edit func(c *Config)) *Config {
	c := DefaultConfig()
	c.Family = string(family)
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	string(dynamo.FirstOrder): {
		"skydiver": preset(dynamo.FirstOrder, func(c *Config) {}),
		"heavy": preset(dynamo.FirstOrder, func(c *Config) {
			c.Drag.Mass = 120
			c.Tf = 20
		}),
		"parachute": preset(dynamo.FirstOrder, func(c *Config) {
			c.Drag.Mass, c.Drag.K, c.Drag.V0 = 80, 30, 50
			c.Tf, c.H = 5, 0.01
		}),
	},
	string(dynamo.SecondOrder): {
		"unit": preset(dynamo.SecondOrder, func(c *Config) {}),
		"stiff": preset(dynamo.SecondOrder, func(c *Config) {
			c.Oscillator.K = 25
			c.H = 0.02
		}),
		"kicked": preset(dynamo.SecondOrder, func(c *Config) {
			c.Oscillator.X0, c.Oscillator.V0 = 0, 2
			c.Tf = 20
		}),
	},
	string(dynamo.System): {
		"coupled": preset(dynamo.System, func(c *Config) {
			c.Tf = 5
		}),
		"reciprocal": preset(dynamo.System, func(c *Config) {
			c.System = SystemConfig{B: 1, C: -1, X0: 1, Y0: 1}
		}),
		"saddle": preset(dynamo.System, func(c *Config) {
			c.System = SystemConfig{A: 1, D: -1, X0: 1, Y0: 1}
			c.Tf = 5
		}),
		"spiral": preset(dynamo.System, func(c *Config) {
			c.System = SystemConfig{A: -0.1, B: 1, C: -1, D: -0.1, X0: 1, Y0: 1}
			c.Tf = 30
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, name string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names of a family in sorted order.
func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
