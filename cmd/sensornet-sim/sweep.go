package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sensornet-sim/internal/config"
	"sensornet-sim/internal/network"
	"sensornet-sim/internal/report"
	"sensornet-sim/internal/scenario"
)

var (
	sweepConfigPath string
	sweepSchemaPath string
	sweepFile       string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a parameter sweep and compare the outcomes",
	Long:  "sweep runs each variation of the base configuration to completion and prints per-run summary statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := config.Load(sweepConfigPath, sweepSchemaPath)
		if err != nil {
			return err
		}
		sw, err := scenario.Load(sweepFile)
		if err != nil {
			return err
		}

		results := make(map[string]report.Stats, len(sw.Runs))
		for _, run := range sw.Runs {
			cfg := run.Apply(base)
			cfg.Simulation.SaveHistory = true
			net, err := network.New(cfg)
			if err != nil {
				return fmt.Errorf("run %q: %w", run.Name, err)
			}
			net.Run(cfg.Simulation.Steps)
			results[run.Name] = report.Summary(net.History())
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "config/simulation.yaml", "Path to base configuration YAML")
	sweepCmd.Flags().StringVar(&sweepSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	sweepCmd.Flags().StringVar(&sweepFile, "sweep", "config/sweep.yaml", "Path to sweep definition YAML")
}
