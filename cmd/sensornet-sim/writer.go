package main

import (
	"os"
	"strings"

	"sensornet-sim/internal/sim"
	"sensornet-sim/internal/store"
)

// writerSet bundles the writers handed to the simulator.
type writerSet struct {
	rows    sim.TelemetryWriter
	states  sim.StateWriter
	events  sim.EventWriter
	tui     *sim.TUIWriter
	cleanup func()
}

// newWriters assembles the output sinks from flags and environment:
// GreptimeDB for per-sensor rows (GREPTIMEDB_ENDPOINT), Kafka for step
// records and events (KAFKA_BROKERS, KAFKA_TOPIC), plus optional JSONL log
// files, a SQLite store, and the TUI. With none of those configured, rows
// and records go to STDOUT as JSON lines.
func newWriters(printOnly bool, logFile, sqlitePath string, useTUI bool) (*writerSet, error) {
	var rowWriters []sim.TelemetryWriter
	var stateWriters []sim.StateWriter
	var eventWriters []sim.EventWriter
	var closers []func()

	ws := &writerSet{}

	if useTUI {
		ws.tui = sim.NewTUIWriter()
		stateWriters = append(stateWriters, ws.tui)
		eventWriters = append(eventWriters, ws.tui)
	}

	if !printOnly {
		if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" {
			gw, err := sim.NewGreptimeDBWriter(endpoint, "public")
			if err != nil {
				return nil, err
			}
			rowWriters = append(rowWriters, gw)
		}
		if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
			topic := os.Getenv("KAFKA_TOPIC")
			if topic == "" {
				topic = "sensornet.history"
			}
			kw := sim.NewKafkaWriter(strings.Split(brokers, ","), topic)
			stateWriters = append(stateWriters, kw)
			eventWriters = append(eventWriters, kw)
			closers = append(closers, func() { kw.Close() })
		}
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, logFile+".rows", logFile+".events")
		if err != nil {
			return nil, err
		}
		rowWriters = append(rowWriters, fw)
		stateWriters = append(stateWriters, fw)
		eventWriters = append(eventWriters, fw)
		closers = append(closers, func() { fw.Close() })
	}

	if sqlitePath != "" {
		st, err := store.Open(sqlitePath)
		if err != nil {
			return nil, err
		}
		stateWriters = append(stateWriters, st)
		closers = append(closers, func() { st.Close() })
	}

	// Fall back to STDOUT when nothing else consumes the run, unless the
	// TUI owns the terminal.
	if len(rowWriters) == 0 && len(stateWriters) == 0 && !useTUI {
		sw := sim.NewStdoutWriter()
		rowWriters = append(rowWriters, sw)
		stateWriters = append(stateWriters, sw)
		eventWriters = append(eventWriters, sw)
	}

	mw := sim.NewMultiWriter(rowWriters, stateWriters, eventWriters)
	ws.rows = mw
	ws.states = mw
	ws.events = mw
	ws.cleanup = func() {
		for _, c := range closers {
			c()
		}
	}
	return ws, nil
}
