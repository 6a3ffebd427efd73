package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"sensornet-sim/internal/config"
)

func writeSweep(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write sweep: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeSweep(t, `
name: healing-budget
description: Compare healing budgets.
runs:
  - name: baseline
  - name: no-healing
    healing_max_attempts: 0
  - name: dense
    initial_sensors: 40
    coverage_threshold: 0.9
    steps: 20
    grid_density: 12
    random_seed: 7
`)

	sw, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sw.Name != "healing-budget" {
		t.Errorf("name = %q", sw.Name)
	}
	if len(sw.Runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(sw.Runs))
	}

	base := sw.Runs[0]
	if base.InitialSensors != nil || base.HealingMaxAttempts != nil || base.RandomSeed != nil {
		t.Errorf("baseline run must leave all overrides nil: %+v", base)
	}
	if sw.Runs[1].HealingMaxAttempts == nil || *sw.Runs[1].HealingMaxAttempts != 0 {
		t.Errorf("explicit zero override lost: %+v", sw.Runs[1])
	}
	dense := sw.Runs[2]
	if dense.InitialSensors == nil || *dense.InitialSensors != 40 {
		t.Errorf("initial_sensors override lost: %+v", dense)
	}
	if dense.RandomSeed == nil || *dense.RandomSeed != 7 {
		t.Errorf("random_seed override lost: %+v", dense)
	}
}

func TestLoadRejectsEmptySweep(t *testing.T) {
	path := writeSweep(t, "name: empty\nruns: []\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for sweep without runs")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestApplyOverrides(t *testing.T) {
	base := config.Default()
	sensors := 7
	threshold := 0.95
	attempts := 1
	steps := 2
	density := 6
	seed := int64(99)
	run := Run{
		Name:               "custom",
		InitialSensors:     &sensors,
		CoverageThreshold:  &threshold,
		HealingMaxAttempts: &attempts,
		Steps:              &steps,
		GridDensity:        &density,
		RandomSeed:         &seed,
	}

	cfg := run.Apply(base)
	if cfg.Network.InitialSensors != 7 || cfg.Network.CoverageThreshold != 0.95 || cfg.Network.HealingMaxAttempts != 1 {
		t.Errorf("network overrides not applied: %+v", cfg.Network)
	}
	if cfg.Simulation.Steps != 2 || cfg.Simulation.GridDensity != 6 {
		t.Errorf("simulation overrides not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.RandomSeed == nil || *cfg.Simulation.RandomSeed != 99 {
		t.Errorf("random_seed override not applied")
	}

	// The base configuration is untouched.
	def := config.Default()
	if base.Network != def.Network || base.Simulation.Steps != def.Simulation.Steps {
		t.Errorf("Apply mutated the base configuration: %+v", base)
	}
}

func TestApplyEmptyRunKeepsBase(t *testing.T) {
	base := config.Default()
	cfg := Run{Name: "baseline"}.Apply(base)
	if *cfg != *base {
		t.Errorf("empty run changed the configuration: %+v vs %+v", cfg, base)
	}
}
