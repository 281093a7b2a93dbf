// Package config loads the YAML settings file that tunes the window, the
// simulation and the demo scene.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/cubedrop/input"
	"github.com/plus3/cubedrop/physics"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "cubedrop.yaml"

type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Scene    SceneConfig    `yaml:"scene"`
	Debug    DebugConfig    `yaml:"debug"`
	Headless HeadlessConfig `yaml:"headless"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

type PhysicsConfig struct {
	Gravity [3]float32 `yaml:"gravity"`
	// Timestep is the fixed step in seconds.
	Timestep   float32 `yaml:"timestep"`
	MaxSteps   int     `yaml:"max_steps"`
	Iterations int     `yaml:"iterations"`
	Paused     bool    `yaml:"paused"`
}

type SceneConfig struct {
	ResetKey input.KeyCode `yaml:"reset_key"`
	// InitialSpin is the parent cube's starting angular velocity in rad/s.
	InitialSpin [3]float32 `yaml:"initial_spin"`
}

type DebugConfig struct {
	Imgui bool `yaml:"imgui"`
	// LogEvery logs the parent cube's pose every n frames; 0 disables it.
	LogEvery int `yaml:"log_every"`
}

type HeadlessConfig struct {
	Frames int `yaml:"frames"`
	// PressReset lists frames on which the reset key is tapped.
	PressReset []int `yaml:"press_reset"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	settings := physics.DefaultSettings()
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "cubedrop",
			Resizable: true,
		},
		Physics: PhysicsConfig{
			Gravity:    [3]float32(settings.Gravity),
			Timestep:   settings.Timestep,
			MaxSteps:   settings.MaxStepsPerFrame,
			Iterations: settings.Iterations,
		},
		Scene: SceneConfig{
			ResetKey: input.KeyR,
		},
		Headless: HeadlessConfig{
			Frames:     600,
			PressReset: []int{300},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned as they are.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if !(c.Physics.Timestep > 0 && c.Physics.Timestep <= 0.25) {
		errs = append(errs, fmt.Errorf("physics.timestep must be in (0, 0.25], got %g", c.Physics.Timestep))
	}
	if !finite(c.Physics.Gravity) {
		errs = append(errs, fmt.Errorf("physics.gravity must be finite, got %v", c.Physics.Gravity))
	}
	if c.Physics.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("physics.max_steps must be at least 1, got %d", c.Physics.MaxSteps))
	}
	if c.Physics.Iterations < 1 {
		errs = append(errs, fmt.Errorf("physics.iterations must be at least 1, got %d", c.Physics.Iterations))
	}
	if !finite(c.Scene.InitialSpin) {
		errs = append(errs, fmt.Errorf("scene.initial_spin must be finite, got %v", c.Scene.InitialSpin))
	}
	if !c.Scene.ResetKey.Valid() {
		errs = append(errs, errors.New("scene.reset_key must name a key"))
	}
	if c.Debug.LogEvery < 0 {
		errs = append(errs, fmt.Errorf("debug.log_every must not be negative, got %d", c.Debug.LogEvery))
	}
	if c.Headless.Frames < 0 {
		errs = append(errs, fmt.Errorf("headless.frames must not be negative, got %d", c.Headless.Frames))
	}
	for _, frame := range c.Headless.PressReset {
		if frame < 0 {
			errs = append(errs, fmt.Errorf("headless.press_reset frames must not be negative, got %d", frame))
			break
		}
	}
	return errors.Join(errs...)
}

func finite(v [3]float32) bool {
	for _, x := range v {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// PhysicsSettings applies the physics section to the simulation defaults.
func (c *Config) PhysicsSettings() physics.Settings {
	settings := physics.DefaultSettings()
	settings.Gravity = mgl32.Vec3(c.Physics.Gravity)
	settings.Timestep = c.Physics.Timestep
	settings.MaxStepsPerFrame = c.Physics.MaxSteps
	settings.Iterations = c.Physics.Iterations
	settings.Paused = c.Physics.Paused
	return settings
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}
