// Package config provides configuration loading and access for the viewer and tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/metaballs/field"
	"github.com/pthm-cable/metaballs/surface"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SurfaceConfig holds the lattice and iso-surface parameters.
// Resolution, center and extent fix the lattice topology; the rest can be
// changed while running.
type SurfaceConfig struct {
	Resolution       [2]int     `yaml:"resolution"`        // Cells along X and Y
	Center           [2]float64 `yaml:"center"`            // World-space lattice center
	Extent           [2]float64 `yaml:"extent"`            // World-space lattice size
	IsoThreshold     float64    `yaml:"iso_threshold"`     // Field level of the surface (> 0)
	InterpolateEdges bool       `yaml:"interpolate_edges"` // false places crossings at edge midpoints
	FillInterior     bool       `yaml:"fill_interior"`     // Triangulate fully inside cells
}

// SceneConfig holds the demo scene that drives the sources.
type SceneConfig struct {
	Seed       int64          `yaml:"seed"`        // Noise seed for drift
	DriftSpeed float64        `yaml:"drift_speed"` // Max noise acceleration (world units/s^2)
	DriftScale float64        `yaml:"drift_scale"` // Noise sampling frequency over time
	MaxSpeed   float64        `yaml:"max_speed"`   // Velocity clamp (0 disables)
	Bounce     bool           `yaml:"bounce"`      // Reflect blobs off the lattice bounds
	Sources    []SourceConfig `yaml:"sources"`
}

// SourceConfig describes one initial metaball.
type SourceConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Radius   float64 `yaml:"radius"`
	Power    int     `yaml:"power"`
	Polarity string  `yaml:"polarity"` // "positive" or "negative"
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
}

// TelemetryConfig holds performance reporting parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Frames in the rolling timing window
	StatsEvery int `yaml:"stats_every"` // Frames between perf log lines (0 disables)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32          // Screen.Width as float32
	ScreenH32 float32          // Screen.Height as float32
	Surface   surface.Settings // Ready-to-build grid settings
	BoundsMin r2.Vec           // Lower-left corner of the lattice
	BoundsMax r2.Vec           // Upper-right corner of the lattice
}

// ErrInvalidScreen is returned for non-positive window dimensions.
var ErrInvalidScreen = errors.New("screen size must be positive")

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// SurfaceSettings converts the surface section to grid settings.
func (c *Config) SurfaceSettings() surface.Settings {
	s := c.Surface
	return surface.Settings{
		Resolution:       s.Resolution,
		Center:           r2.Vec{X: s.Center[0], Y: s.Center[1]},
		Extent:           r2.Vec{X: s.Extent[0], Y: s.Extent[1]},
		IsoThreshold:     s.IsoThreshold,
		InterpolateEdges: s.InterpolateEdges,
	}
}

// Falloff converts a source entry to a validated falloff.
func (s SourceConfig) Falloff() (field.Falloff, error) {
	pol, err := field.ParsePolarity(s.Polarity)
	if err != nil {
		return field.Falloff{}, err
	}
	f := field.Falloff{Radius: s.Radius, Power: s.Power, Polarity: pol}
	if err := f.Validate(); err != nil {
		return field.Falloff{}, err
	}
	return f, nil
}

// Position returns the initial source position.
func (s SourceConfig) Position() r2.Vec { return r2.Vec{X: s.X, Y: s.Y} }

// Velocity returns the initial source velocity.
func (s SourceConfig) Velocity() r2.Vec { return r2.Vec{X: s.VX, Y: s.VY} }

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidScreen, c.Screen.Width, c.Screen.Height)
	}
	if err := c.SurfaceSettings().Validate(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	for i, src := range c.Scene.Sources {
		if _, err := src.Falloff(); err != nil {
			return fmt.Errorf("scene.sources[%d]: %w", i, err)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Surface = c.SurfaceSettings()

	half := r2.Scale(0.5, c.Derived.Surface.Extent)
	c.Derived.BoundsMin = r2.Sub(c.Derived.Surface.Center, half)
	c.Derived.BoundsMax = r2.Add(c.Derived.Surface.Center, half)

	if c.Screen.TargetFPS <= 0 {
		c.Screen.TargetFPS = 60
	}
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = 120
	}
	if c.Scene.DriftScale <= 0 {
		c.Scene.DriftScale = 0.5
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
