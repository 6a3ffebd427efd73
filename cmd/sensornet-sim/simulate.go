package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sensornet-sim/internal/admin"
	"sensornet-sim/internal/config"
	"sensornet-sim/internal/logging"
	"sensornet-sim/internal/observability"
	"sensornet-sim/internal/sim"
)

var (
	simConfigPath string
	simSchemaPath string
	simSteps      int
	simTick       time.Duration
	simLogFile    string
	simSQLitePath string
	simPrintOnly  bool
	simTUI        bool
	simAdminAddr  string
	simWorkers    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the sensor network simulation",
	Long:  "simulate deploys the initial sensor batch and drives the network for the configured number of steps, healing coverage as it degrades.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if simSteps > 0 {
			cfg.Simulation.Steps = simSteps
		}

		log := logging.New()
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		writers, err := newWriters(simPrintOnly, simLogFile, simSQLitePath, simTUI)
		if err != nil {
			return err
		}
		defer writers.cleanup()

		metrics, err := observability.NewCollector(nil)
		if err != nil {
			return err
		}

		simulator, err := sim.NewSimulator(cfg, writers.rows, writers.states, writers.events, simTick,
			sim.WithMetrics(metrics),
			sim.WithEstimatorWorkers(simWorkers),
		)
		if err != nil {
			return err
		}

		srv := admin.NewServer(simulator, metrics)
		go func() {
			log.Info("admin API listening", "addr", simAdminAddr)
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "err", err)
			}
		}()

		errCh := make(chan error, 1)
		go func() {
			errCh <- simulator.Run(ctx)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigs:
			cancel()
			<-errCh
		case err := <-errCh:
			if err != nil && err != context.Canceled {
				return err
			}
		}

		if writers.tui != nil {
			writers.tui.Wait()
		}
		log.Info("simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().IntVar(&simSteps, "steps", 0, "Override the configured number of steps")
	simulateCmd.Flags().DurationVar(&simTick, "tick", 0, "Pace steps with this interval (0 runs them back to back)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export step records as JSONL (rows and events alongside)")
	simulateCmd.Flags().StringVar(&simSQLitePath, "sqlite", "", "Path to a SQLite database for step records")
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print to STDOUT instead of writing to external sinks")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a live terminal dashboard")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin API listen address")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Parallelize the coverage grid scan across this many workers")
}
