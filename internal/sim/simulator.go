// Simulator orchestrating the sensor network and telemetry ticks
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sensornet-sim/internal/config"
	"sensornet-sim/internal/logging"
	"sensornet-sim/internal/network"
	"sensornet-sim/internal/record"
)

// Metrics receives per-step observations. Implemented by the observability
// collector; nil disables instrumentation.
type Metrics interface {
	ObserveStep(rec record.StepRecord, stepDuration time.Duration)
	ObserveEvent(ev record.Event)
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithMetrics attaches a metrics collector.
func WithMetrics(m Metrics) Option {
	return func(s *Simulator) { s.metrics = m }
}

// WithEstimatorWorkers parallelizes the coverage grid scan.
func WithEstimatorWorkers(w int) Option {
	return func(s *Simulator) { s.estimatorWorkers = w }
}

// Simulator drives the network step by step and fans results out to the
// configured writers.
type Simulator struct {
	net          *network.Network
	writer       TelemetryWriter
	stateWriter  StateWriter
	eventWriter  EventWriter
	metrics      Metrics
	tickInterval time.Duration
	steps        int

	estimatorWorkers int

	mu      sync.Mutex
	pending []record.Event // events since the last flush
	events  []record.Event // full event log for the admin surface
	last    record.StepRecord
	done    bool
}

// NewSimulator builds the network from cfg. A tickInterval <= 0 runs all
// steps back to back.
func NewSimulator(cfg *config.SimulationConfig, writer TelemetryWriter, stateWriter StateWriter, eventWriter EventWriter, tickInterval time.Duration, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		writer:       writer,
		stateWriter:  stateWriter,
		eventWriter:  eventWriter,
		tickInterval: tickInterval,
		steps:        cfg.Simulation.Steps,
	}
	for _, opt := range opts {
		opt(s)
	}
	net, err := network.New(cfg,
		network.WithObserver(s.collectEvent),
		network.WithEstimatorWorkers(s.estimatorWorkers),
	)
	if err != nil {
		return nil, err
	}
	s.net = net
	return s, nil
}

func (s *Simulator) collectEvent(ev record.Event) {
	s.pending = append(s.pending, ev)
	s.events = append(s.events, ev)
	if s.metrics != nil {
		s.metrics.ObserveEvent(ev)
	}
}

// Run executes the configured number of steps, pacing them with the tick
// interval, and stops early when the context is done.
func (s *Simulator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "steps", s.steps, "tick_interval", s.tickInterval)

	if s.tickInterval <= 0 {
		for i := 0; i < s.steps; i++ {
			select {
			case <-ctx.Done():
				log.Info("stopping simulator", "completed_steps", i)
				return ctx.Err()
			default:
			}
			s.tick(ctx)
		}
		s.finish(log)
		return nil
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	completed := 0
	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
			completed++
			if completed >= s.steps {
				s.finish(log)
				return nil
			}
		case <-ctx.Done():
			log.Info("stopping simulator", "completed_steps", completed)
			return ctx.Err()
		}
	}
}

func (s *Simulator) finish(log *slog.Logger) {
	s.mu.Lock()
	s.done = true
	last := s.last
	s.mu.Unlock()
	log.Info("simulation finished",
		"steps", s.steps,
		"coverage", last.Coverage,
		"active", last.ActiveSensors,
		"total", last.TotalSensors)
}

// tick advances the network one step and writes the resulting rows.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rec := s.net.Step()
	elapsed := time.Since(start)
	s.last = rec

	events := s.pending
	s.pending = nil

	if s.metrics != nil {
		s.metrics.ObserveStep(rec, elapsed)
	}

	// Batch support if writer implements WriteBatch
	rows := s.sensorRows(rec)
	if s.writer != nil {
		if bw, ok := s.writer.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				log.Error("batch write failed", "err", err)
			}
		} else {
			for _, row := range rows {
				if err := s.writer.Write(row); err != nil {
					log.Error("write failed", "sensor_id", row.SensorID, "err", err)
				}
			}
		}
	}

	if s.stateWriter != nil {
		if err := s.stateWriter.WriteState(rec); err != nil {
			log.Error("state write failed", "step", rec.Step, "err", err)
		}
	}

	if len(events) > 0 && s.eventWriter != nil {
		if bw, ok := s.eventWriter.(batchEventWriter); ok {
			if err := bw.WriteEvents(events); err != nil {
				log.Error("event batch write failed", "err", err)
			}
		} else {
			for _, ev := range events {
				if err := s.eventWriter.WriteEvent(ev); err != nil {
					log.Error("event write failed", "err", err)
				}
			}
		}
	}
}

func (s *Simulator) sensorRows(rec record.StepRecord) []record.SensorRow {
	states := s.net.Sensors()
	rows := make([]record.SensorRow, len(states))
	for i, st := range states {
		rows[i] = record.SensorRow{
			RunID:     rec.RunID,
			SensorID:  fmt.Sprintf("sensor-%d", st.ID),
			Kind:      st.Kind,
			X:         st.Position[0],
			Y:         st.Position[1],
			Z:         st.Position[2],
			Radius:    st.Radius,
			Battery:   st.Battery,
			Active:    st.Active,
			Step:      rec.Step,
			Timestamp: rec.Timestamp,
		}
	}
	return rows
}

// Status summarizes the run for the admin surface.
type Status struct {
	RunID         string  `json:"run_id"`
	Step          int     `json:"step"`
	Steps         int     `json:"steps"`
	ActiveSensors int     `json:"active_sensors"`
	TotalSensors  int     `json:"total_sensors"`
	Coverage      float64 `json:"coverage"`
	Done          bool    `json:"done"`
}

// Status returns the latest run summary.
func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		RunID:         s.net.RunID(),
		Step:          s.net.StepCount(),
		Steps:         s.steps,
		ActiveSensors: s.last.ActiveSensors,
		TotalSensors:  s.last.TotalSensors,
		Coverage:      s.last.Coverage,
		Done:          s.done,
	}
}

// Snapshot returns the read-only state of every sensor.
func (s *Simulator) Snapshot() []record.SensorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.Sensors()
}

// History returns a copy of the recorded step history.
func (s *Simulator) History() []record.StepRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.History()
}

// Events returns a copy of all state-transition events so far.
func (s *Simulator) Events() []record.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]record.Event, len(s.events))
	copy(events, s.events)
	return events
}
