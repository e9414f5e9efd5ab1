package config

import (
	"sort"

	"github.com/san-kum/gravfield/internal/gravity"
)

// Presets holds named survey setups. "lab01" reproduces the reference run.
var Presets = map[string]*Config{
	"lab01": DefaultConfig(),
	"shallow": withOverrides(func(c *Config) {
		c.Source = gravity.Point3D{Z: -2}
	}),
	"deep": withOverrides(func(c *Config) {
		c.Source = gravity.Point3D{Z: -50}
		c.Mass = 1e9
	}),
	"dense": withOverrides(func(c *Config) {
		c.Spacings = []float64{2.5, 5, 25}
		c.ZLevels = []float64{0, 5, 10, 50, 100}
		c.Render.HeightIn = 26
	}),
	"offset": withOverrides(func(c *Config) {
		c.Source = gravity.Point3D{X: 30, Y: -40, Z: -20}
		c.Mass = 5e7
	}),
}

func withOverrides(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
