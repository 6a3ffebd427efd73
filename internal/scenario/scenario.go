// Package scenario defines parameter sweeps: named variations of a base
// configuration run back to back for comparison.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sensornet-sim/internal/config"
)

// Sweep is an ordered list of runs derived from a base configuration.
type Sweep struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Runs        []Run  `yaml:"runs"`
}

// Run overrides selected fields of the base configuration. Nil fields keep
// the base value.
type Run struct {
	Name               string   `yaml:"name"`
	InitialSensors     *int     `yaml:"initial_sensors,omitempty"`
	CoverageThreshold  *float64 `yaml:"coverage_threshold,omitempty"`
	HealingMaxAttempts *int     `yaml:"healing_max_attempts,omitempty"`
	Steps              *int     `yaml:"steps,omitempty"`
	GridDensity        *int     `yaml:"grid_density,omitempty"`
	RandomSeed         *int64   `yaml:"random_seed,omitempty"`
}

// Load reads a YAML sweep definition from disk.
func Load(path string) (*Sweep, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sweep: %w", err)
	}
	var s Sweep
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parse sweep: %w", err)
	}
	if len(s.Runs) == 0 {
		return nil, fmt.Errorf("sweep %q defines no runs", s.Name)
	}
	return &s, nil
}

// Apply returns a copy of base with the run's overrides applied.
func (r Run) Apply(base *config.SimulationConfig) *config.SimulationConfig {
	cfg := *base
	if r.InitialSensors != nil {
		cfg.Network.InitialSensors = *r.InitialSensors
	}
	if r.CoverageThreshold != nil {
		cfg.Network.CoverageThreshold = *r.CoverageThreshold
	}
	if r.HealingMaxAttempts != nil {
		cfg.Network.HealingMaxAttempts = *r.HealingMaxAttempts
	}
	if r.Steps != nil {
		cfg.Simulation.Steps = *r.Steps
	}
	if r.GridDensity != nil {
		cfg.Simulation.GridDensity = *r.GridDensity
	}
	if r.RandomSeed != nil {
		seed := *r.RandomSeed
		cfg.Simulation.RandomSeed = &seed
	}
	return &cfg
}
