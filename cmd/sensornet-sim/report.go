package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sensornet-sim/internal/record"
	"sensornet-sim/internal/report"
	"sensornet-sim/internal/sim"
	"sensornet-sim/internal/store"
)

var (
	reportInput  string
	reportSQLite string
	reportRunID  string
	reportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML report from a recorded history",
	Long:  "report reads step records from a JSONL file or a SQLite store and writes coverage and battery charts plus summary statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := loadHistory()
		if err != nil {
			return err
		}
		if len(history) == 0 {
			return fmt.Errorf("no step records found")
		}

		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.Render(f, history); err != nil {
			return err
		}

		stats := report.Summary(history)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func loadHistory() ([]record.StepRecord, error) {
	switch {
	case reportInput != "":
		return sim.LoadHistoryFile(reportInput)
	case reportSQLite != "":
		st, err := store.Open(reportSQLite)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		runID := reportRunID
		if runID == "" {
			runs, err := st.Runs()
			if err != nil {
				return nil, err
			}
			if len(runs) == 0 {
				return nil, fmt.Errorf("store holds no runs")
			}
			runID = runs[len(runs)-1]
		}
		return st.History(runID)
	default:
		return nil, fmt.Errorf("either --input or --sqlite is required")
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "Path to JSONL history file")
	reportCmd.Flags().StringVar(&reportSQLite, "sqlite", "", "Path to a SQLite store")
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "Run id to report on (defaults to the last run in the store)")
	reportCmd.Flags().StringVar(&reportOut, "out", "report.html", "Output HTML file")
}
