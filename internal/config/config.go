package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/gravity"
)

const (
	DefaultMass      = 1e7
	DefaultSourceZ   = -10.0
	DefaultExtentMin = -100.0
	DefaultExtentMax = 100.0
	DefaultWorkers   = 4
	DefaultDPI       = 150
	DefaultLevels    = 20
	DefaultWidthIn   = 12.0
	DefaultHeightIn  = 16.0
	DefaultOutputDir = "figures"
	DefaultPrefix    = "gravity_fields_spacing"
	DefaultFormat    = "png"
)

var (
	DefaultZLevels  = []float64{0, 10, 100}
	DefaultSpacings = []float64{5, 25}

	// SupportedFormats lists the image formats the renderer can write.
	SupportedFormats = []string{"png", "jpg", "svg", "pdf"}
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Mass     float64         `yaml:"mass"`
	Source   gravity.Point3D `yaml:"source"`
	ZLevels  []float64       `yaml:"z_levels"`
	Extent   ExtentConfig    `yaml:"extent"`
	Spacings []float64       `yaml:"spacings"`
	Workers  int             `yaml:"workers"`
	Output   OutputConfig    `yaml:"output"`
	Render   RenderConfig    `yaml:"render"`
}

type ExtentConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
	Format string `yaml:"format"`
	DPI    int    `yaml:"dpi"`
}

type RenderConfig struct {
	Levels   int     `yaml:"levels"`
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
	Markers  bool    `yaml:"markers"`
	Isolines bool    `yaml:"isolines"`
}

func DefaultConfig() *Config {
	return &Config{
		Mass:     DefaultMass,
		Source:   gravity.Point3D{Z: DefaultSourceZ},
		ZLevels:  append([]float64(nil), DefaultZLevels...),
		Extent:   ExtentConfig{Min: DefaultExtentMin, Max: DefaultExtentMax},
		Spacings: append([]float64(nil), DefaultSpacings...),
		Workers:  DefaultWorkers,
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Prefix: DefaultPrefix,
			Format: DefaultFormat,
			DPI:    DefaultDPI,
		},
		Render: RenderConfig{
			Levels:   DefaultLevels,
			WidthIn:  DefaultWidthIn,
			HeightIn: DefaultHeightIn,
			Markers:  true,
			Isolines: true,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.ZLevels = append([]float64(nil), c.ZLevels...)
	cp.Spacings = append([]float64(nil), c.Spacings...)
	return &cp
}

func (c *Config) PointMass() gravity.PointMass {
	return gravity.PointMass{Location: c.Source, Mass: c.Mass}
}

func (c *Config) Validate() error {
	if !finite(c.Mass) || c.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive and finite, got %g", ErrInvalidConfig, c.Mass)
	}
	if !c.Source.IsFinite() {
		return fmt.Errorf("%w: source must be finite, got %v", ErrInvalidConfig, c.Source)
	}
	if len(c.ZLevels) == 0 {
		return fmt.Errorf("%w: z_levels must not be empty", ErrInvalidConfig)
	}
	for _, z := range c.ZLevels {
		if !finite(z) {
			return fmt.Errorf("%w: z level must be finite, got %g", ErrInvalidConfig, z)
		}
	}
	if !finite(c.Extent.Min) || !finite(c.Extent.Max) {
		return fmt.Errorf("%w: extent must be finite, got [%g, %g]", ErrInvalidConfig, c.Extent.Min, c.Extent.Max)
	}
	if c.Extent.Max <= c.Extent.Min {
		return fmt.Errorf("%w: extent max (%g) must exceed min (%g)", ErrInvalidConfig, c.Extent.Max, c.Extent.Min)
	}
	if len(c.Spacings) == 0 {
		return fmt.Errorf("%w: spacings must not be empty", ErrInvalidConfig)
	}
	for _, s := range c.Spacings {
		if !finite(s) || s <= 0 {
			return fmt.Errorf("%w: spacing must be positive and finite, got %g", ErrInvalidConfig, s)
		}
		if (c.Extent.Max-c.Extent.Min)/s >= field.MaxAxisPoints {
			return fmt.Errorf("%w: spacing %g gives more than %d points per axis", ErrInvalidConfig, s, field.MaxAxisPoints)
		}
	}
	if !isSupportedFormat(c.Output.Format) {
		return fmt.Errorf("%w: output format %q (supported: %s)", ErrInvalidConfig, c.Output.Format, strings.Join(SupportedFormats, ", "))
	}
	if c.Output.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalidConfig, c.Output.DPI)
	}
	if c.Render.Levels < 2 {
		return fmt.Errorf("%w: render levels must be at least 2, got %d", ErrInvalidConfig, c.Render.Levels)
	}
	if c.Render.WidthIn <= 0 || c.Render.HeightIn <= 0 {
		return fmt.Errorf("%w: figure size must be positive, got %gx%g in", ErrInvalidConfig, c.Render.WidthIn, c.Render.HeightIn)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isSupportedFormat(f string) bool {
	for _, s := range SupportedFormats {
		if f == s {
			return true
		}
	}
	return false
}
