package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sensornet-sim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
	replayTUI   bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded history file",
	Long:  "replay feeds step records from a JSONL history file back into a writer, paced by their timestamps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		var writer sim.StateWriter
		var tui *sim.TUIWriter
		if replayTUI {
			tui = sim.NewTUIWriter()
			writer = tui
		} else {
			writer = sim.NewStdoutWriter()
		}
		if err := sim.ReplayHistoryFile(replayInput, writer, replaySpeed); err != nil {
			return err
		}
		if tui != nil {
			tui.Wait()
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to JSONL history file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayTUI, "tui", false, "Render the replay in the terminal dashboard")
	replayCmd.MarkFlagRequired("input")
}
