// Package config provides configuration loading and access for the dot field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) when a loaded config fails validation.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Field     FieldConfig     `yaml:"field"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Style     StyleConfig     `yaml:"style"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the graphical backends.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// FieldConfig holds particle creation parameters.
// Ranges are half-open: a value is drawn from [min, max).
type FieldConfig struct {
	Count           int     `yaml:"count"`
	RadiusMin       float64 `yaml:"radius_min"`
	RadiusMax       float64 `yaml:"radius_max"`
	FallSpeedMin    float64 `yaml:"fall_speed_min"`
	FallSpeedMax    float64 `yaml:"fall_speed_max"`
	AngularSpeedMax float64 `yaml:"angular_speed_max"` // angular speed drawn from [-max, max]
	RespawnY        float64 `yaml:"respawn_y"`         // y a dot restarts at after leaving the bottom
	ReseedOnResize  bool    `yaml:"reseed_on_resize"`  // false keeps particle state and only moves the bounds
}

// PhysicsConfig holds the per-frame motion parameters.
type PhysicsConfig struct {
	RepulsionRadius float64 `yaml:"repulsion_radius"` // pointer influence distance
	ForceDivisor    float64 `yaml:"force_divisor"`    // force = (radius - dist) / divisor
	Damping         float64 `yaml:"damping"`          // velocity multiplier per frame
}

// StyleConfig holds colors. Colors are hex strings ("#rrggbb").
type StyleConfig struct {
	Background string  `yaml:"background"`
	Fill       string  `yaml:"fill"`
	FillAlpha  float64 `yaml:"fill_alpha"`
}

// HeadlessConfig holds settings for runs without a window.
type HeadlessConfig struct {
	Width        int  `yaml:"width"`
	Height       int  `yaml:"height"`
	MaxTicks     int  `yaml:"max_ticks"`
	PointerSweep bool `yaml:"pointer_sweep"` // move a synthetic pointer across the field
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Background  color.NRGBA // Style.Background, opaque
	Fill        color.NRGBA // Style.Fill with FillAlpha applied
	WindowTicks int32       // Telemetry.StatsWindow in frames at Screen.TargetFPS
	DT          float64     // seconds per frame at Screen.TargetFPS
}

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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
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
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the ranges the field and physics code rely on.
func (c *Config) Validate() error {
	f := c.Field
	p := c.Physics
	switch {
	case f.Count < 0:
		return fmt.Errorf("%w: field.count %d is negative", ErrInvalid, f.Count)
	case f.RadiusMin < 0 || f.RadiusMin > f.RadiusMax:
		return fmt.Errorf("%w: field radius range [%g, %g)", ErrInvalid, f.RadiusMin, f.RadiusMax)
	case f.FallSpeedMin > f.FallSpeedMax:
		return fmt.Errorf("%w: field fall speed range [%g, %g)", ErrInvalid, f.FallSpeedMin, f.FallSpeedMax)
	case f.AngularSpeedMax < 0:
		return fmt.Errorf("%w: field.angular_speed_max %g is negative", ErrInvalid, f.AngularSpeedMax)
	case p.RepulsionRadius <= 0:
		return fmt.Errorf("%w: physics.repulsion_radius must be positive", ErrInvalid)
	case p.ForceDivisor <= 0:
		return fmt.Errorf("%w: physics.force_divisor must be positive", ErrInvalid)
	case p.Damping < 0 || p.Damping > 1:
		return fmt.Errorf("%w: physics.damping %g outside [0, 1]", ErrInvalid, p.Damping)
	case c.Style.FillAlpha < 0 || c.Style.FillAlpha > 1:
		return fmt.Errorf("%w: style.fill_alpha %g outside [0, 1]", ErrInvalid, c.Style.FillAlpha)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	bg, err := ParseColor(c.Style.Background, 1)
	if err != nil {
		return fmt.Errorf("style.background: %w", err)
	}
	fill, err := ParseColor(c.Style.Fill, c.Style.FillAlpha)
	if err != nil {
		return fmt.Errorf("style.fill: %w", err)
	}
	c.Derived.Background = bg
	c.Derived.Fill = fill

	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.WindowTicks = int32(math.Max(1, math.Round(c.Telemetry.StatsWindow*float64(fps))))
	c.Derived.DT = 1 / float64(fps)
	return nil
}

// ParseColor parses a "#rrggbb" hex string and applies alpha in [0, 1].
func ParseColor(hex string, alpha float64) (color.NRGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalid, hex, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}, nil
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
