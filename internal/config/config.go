// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SensorConfig holds the per-sensor parameter ranges, each a (min,max) pair.
type SensorConfig struct {
	RadiusRange             [2]float64 `yaml:"radius_range"`
	LifespanRange           [2]float64 `yaml:"lifespan_range"`
	MobilityRange           [2]float64 `yaml:"mobility_range"`
	FailureProbabilityRange [2]float64 `yaml:"failure_probability_range"`
}

// NetworkConfig describes the bounded volume and the healing policy.
type NetworkConfig struct {
	Bounds             [3]float64 `yaml:"bounds"`
	InitialSensors     int        `yaml:"initial_sensors"`
	CoverageThreshold  float64    `yaml:"coverage_threshold"`
	HealingMaxAttempts int        `yaml:"healing_max_attempts"`
}

// RunConfig controls a simulation run.
type RunConfig struct {
	Steps       int    `yaml:"steps"`
	SaveHistory bool   `yaml:"save_history"`
	RandomSeed  *int64 `yaml:"random_seed,omitempty"`
	GridDensity int    `yaml:"grid_density"`
}

// SimulationConfig is the root configuration for sensors, the network, and
// the run itself.
type SimulationConfig struct {
	Sensor     SensorConfig  `yaml:"sensor"`
	Network    NetworkConfig `yaml:"network"`
	Simulation RunConfig     `yaml:"simulation"`
}

// Default returns the configuration used when a field is absent from the
// YAML file.
func Default() *SimulationConfig {
	return &SimulationConfig{
		Sensor: SensorConfig{
			RadiusRange:             [2]float64{5.0, 15.0},
			LifespanRange:           [2]float64{30.0, 50.0},
			MobilityRange:           [2]float64{0.1, 1.0},
			FailureProbabilityRange: [2]float64{0.0, 0.05},
		},
		Network: NetworkConfig{
			Bounds:             [3]float64{100.0, 100.0, 100.0},
			InitialSensors:     20,
			CoverageThreshold:  0.8,
			HealingMaxAttempts: 5,
		},
		Simulation: RunConfig{
			Steps:       10,
			SaveHistory: true,
			GridDensity: 10,
		},
	}
}

// Load loads YAML config and validates it against a CUE schema. Defaults fill
// any omitted fields, and semantic validation runs before the config is
// handed out; a config that loads never fails mid-run.
func Load(configPath, cueSchemaPath string) (*SimulationConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
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

// Validate rejects malformed ranges and non-positive bounds or densities.
func (c *SimulationConfig) Validate() error {
	ranges := map[string][2]float64{
		"radius_range":              c.Sensor.RadiusRange,
		"lifespan_range":            c.Sensor.LifespanRange,
		"mobility_range":            c.Sensor.MobilityRange,
		"failure_probability_range": c.Sensor.FailureProbabilityRange,
	}
	for name, r := range ranges {
		if r[0] > r[1] {
			return fmt.Errorf("config: %s min %v exceeds max %v", name, r[0], r[1])
		}
		if r[0] < 0 {
			return fmt.Errorf("config: %s min %v is negative", name, r[0])
		}
	}
	if c.Sensor.FailureProbabilityRange[1] > 1 {
		return fmt.Errorf("config: failure_probability_range max %v exceeds 1", c.Sensor.FailureProbabilityRange[1])
	}
	for i, b := range c.Network.Bounds {
		if b <= 0 {
			return fmt.Errorf("config: bounds[%d] must be positive, got %v", i, b)
		}
	}
	if c.Network.InitialSensors < 0 {
		return fmt.Errorf("config: initial_sensors must be non-negative, got %d", c.Network.InitialSensors)
	}
	if c.Network.CoverageThreshold < 0 || c.Network.CoverageThreshold > 1 {
		return fmt.Errorf("config: coverage_threshold must be in [0,1], got %v", c.Network.CoverageThreshold)
	}
	if c.Network.HealingMaxAttempts < 0 {
		return fmt.Errorf("config: healing_max_attempts must be non-negative, got %d", c.Network.HealingMaxAttempts)
	}
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("config: steps must be positive, got %d", c.Simulation.Steps)
	}
	if c.Simulation.GridDensity <= 0 {
		return fmt.Errorf("config: grid_density must be positive, got %d", c.Simulation.GridDensity)
	}
	return nil
}
