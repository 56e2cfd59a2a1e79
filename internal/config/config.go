package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tethersim/internal/dynamo"
	"github.com/san-kum/tethersim/internal/physics"
	"github.com/san-kum/tethersim/internal/sim"
	"github.com/san-kum/tethersim/internal/thrust"
)

const (
	ModelVehicle   = "vehicle"
	ModelPointMass = "pointmass"

	ThrustPlaceholder = "placeholder"
	ThrustTabulated   = "tabulated"

	DefaultEndTime           = 3000.0
	DefaultStepsPerMs        = 10.0
	DefaultPlaceholderThrust = 5.0
	DefaultThrustLocation    = "thrust_average.json"
	DefaultUnitScale         = 0.001
	DefaultDistanceThreshold = 20.0
	DefaultBurnThreshold     = 0.1
)

// Config is the full run description. It holds no references, so a plain
// assignment is a complete snapshot.
type Config struct {
	Model      string                  `yaml:"model"`
	Integrator string                  `yaml:"integrator"`
	Grid       GridConfig              `yaml:"grid"`
	Initial    InitialConfig           `yaml:"initial"`
	Vehicle    physics.VehicleParams   `yaml:"vehicle"`
	PointMass  physics.PointMassParams `yaml:"point_mass"`
	Thrust     ThrustConfig            `yaml:"thrust"`
	Metrics    MetricsConfig           `yaml:"metrics"`
}

type GridConfig struct {
	EndTime    float64 `yaml:"end_time"`
	StepsPerMs float64 `yaml:"steps_per_ms"`
	Cutoff     float64 `yaml:"cutoff"`
}

type InitialConfig struct {
	Velocity     float64 `yaml:"velocity"`
	Displacement float64 `yaml:"displacement"`
}

type ThrustConfig struct {
	// Source is "placeholder" or "tabulated".
	Source      string  `yaml:"source"`
	Location    string  `yaml:"location"`
	StepMs      float64 `yaml:"step_ms"`
	Placeholder float64 `yaml:"placeholder"`
}

type MetricsConfig struct {
	UnitScale         float64 `yaml:"unit_scale"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
	BurnThreshold     float64 `yaml:"burn_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      ModelVehicle,
		Integrator: "rk4",
		Grid: GridConfig{
			EndTime:    DefaultEndTime,
			StepsPerMs: DefaultStepsPerMs,
		},
		Vehicle:   physics.DefaultVehicleParams(),
		PointMass: physics.DefaultPointMassParams(),
		Thrust: ThrustConfig{
			Source:      ThrustPlaceholder,
			Location:    DefaultThrustLocation,
			StepMs:      thrust.DefaultStepMs,
			Placeholder: DefaultPlaceholderThrust,
		},
		Metrics: MetricsConfig{
			UnitScale:         DefaultUnitScale,
			DistanceThreshold: DefaultDistanceThreshold,
			BurnThreshold:     DefaultBurnThreshold,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Validate() error {
	switch c.Model {
	case ModelVehicle, ModelPointMass:
	default:
		return fmt.Errorf("unknown model: %s", c.Model)
	}
	if c.Model == ModelVehicle {
		switch c.Thrust.Source {
		case ThrustPlaceholder, ThrustTabulated:
		default:
			return fmt.Errorf("unknown thrust source: %s", c.Thrust.Source)
		}
		if c.Thrust.Source == ThrustTabulated && c.Thrust.StepMs <= 0 {
			return fmt.Errorf("thrust step %g ms: %w", c.Thrust.StepMs, dynamo.ErrParameterBounds)
		}
	}
	return c.SimConfig().Validate()
}

// SimConfig is the driver snapshot for this configuration.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		EndTime:             c.Grid.EndTime,
		StepsPerMs:          c.Grid.StepsPerMs,
		Cutoff:              c.Grid.Cutoff,
		InitialVelocity:     c.Initial.Velocity,
		InitialDisplacement: c.Initial.Displacement,
		UnitScale:           c.Metrics.UnitScale,
		DistanceThreshold:   c.Metrics.DistanceThreshold,
		BurnThreshold:       c.Metrics.BurnThreshold,
	}
}

// Params returns the adjustable parameter set of the configured model.
func (c *Config) Params() dynamo.Configurable {
	if c.Model == ModelPointMass {
		return &c.PointMass
	}
	return &c.Vehicle
}
