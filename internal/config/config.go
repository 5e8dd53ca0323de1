package config

import (
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadsim/internal/control"
	"github.com/san-kum/quadsim/internal/dynamics"
)

const (
	DefaultMass         = 1.0
	DefaultDt           = 0.01
	DefaultPosThreshold = 3.0
	DefaultVelThreshold = 10.0
	DefaultSteps        = 1000
	DefaultTau          = 0.3
)

// Config is the on-disk session configuration: physical constants,
// controller tuning, episode settings, and optional sinks.
type Config struct {
	Mass         float64    `yaml:"mass"`
	Gravity      [3]float64 `yaml:"gravity"`
	Dt           float64    `yaml:"dt"`
	PosThreshold float64    `yaml:"pos_threshold"`
	VelThreshold float64    `yaml:"vel_threshold"`
	Renormalize  bool       `yaml:"renormalize"`

	RefPos [3]float64 `yaml:"ref_pos"`

	Controller ControllerConfig `yaml:"controller"`

	Steps int   `yaml:"steps"`
	Seed  int64 `yaml:"seed"`

	// Sinks; zero values leave them detached.
	Mavlink   string `yaml:"mavlink"`
	FrameRate int    `yaml:"fps"`
}

// ControllerConfig tunes the geometric controller. Gains are negative
// for attractive feedback.
type ControllerConfig struct {
	Kp  [3]float64 `yaml:"kp"`
	Kv  [3]float64 `yaml:"kv"`
	Tau float64    `yaml:"tau"`
}

// Default returns the stock configuration: unit mass, 9.8 m/s² gravity,
// setpoint two meters above the origin.
func Default() *Config {
	return &Config{
		Mass:         DefaultMass,
		Gravity:      [3]float64{0, 0, -9.8},
		Dt:           DefaultDt,
		PosThreshold: DefaultPosThreshold,
		VelThreshold: DefaultVelThreshold,
		RefPos:       [3]float64{0, 0, 2},
		Controller: ControllerConfig{
			Kp:  [3]float64{-5, -5, -5},
			Kv:  [3]float64{-4, -4, -4},
			Tau: DefaultTau,
		},
		Steps:     DefaultSteps,
		FrameRate: 30,
	}
}

// Load reads a YAML config, layering it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the core cannot run.
func (c *Config) Validate() error {
	if c.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %f", c.Mass)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Controller.Tau <= 0 {
		return fmt.Errorf("controller tau must be positive, got %f", c.Controller.Tau)
	}
	return nil
}

// Params maps the config onto the integrator constants.
func (c *Config) Params() dynamics.Params {
	return dynamics.Params{
		Mass:         c.Mass,
		Gravity:      vec(c.Gravity),
		Dt:           c.Dt,
		PosThreshold: c.PosThreshold,
		VelThreshold: c.VelThreshold,
		Renormalize:  c.Renormalize,
	}
}

// Gains maps the config onto the controller tuning.
func (c *Config) Gains() control.Gains {
	return control.Gains{
		Kp:  vec(c.Controller.Kp),
		Kv:  vec(c.Controller.Kv),
		Tau: c.Controller.Tau,
	}
}

// Reference returns the episode setpoint (velocity reference is zero).
func (c *Config) Reference() dynamics.Reference {
	return dynamics.Reference{Pos: vec(c.RefPos)}
}

func vec(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}
