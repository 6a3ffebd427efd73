package sim

import (
	"context"
	"testing"
	"time"

	"sensornet-sim/internal/config"
	"sensornet-sim/internal/record"
)

type mockRowWriter struct {
	rows []record.SensorRow
}

func (m *mockRowWriter) Write(row record.SensorRow) error {
	m.rows = append(m.rows, row)
	return nil
}

type mockBatchRowWriter struct {
	mockRowWriter
	batches int
}

func (m *mockBatchRowWriter) WriteBatch(rows []record.SensorRow) error {
	m.batches++
	m.rows = append(m.rows, rows...)
	return nil
}

type mockStateWriter struct {
	recs []record.StepRecord
}

func (m *mockStateWriter) WriteState(rec record.StepRecord) error {
	m.recs = append(m.recs, rec)
	return nil
}

type mockEventWriter struct {
	events []record.Event
}

func (m *mockEventWriter) WriteEvent(ev record.Event) error {
	m.events = append(m.events, ev)
	return nil
}

type mockMetrics struct {
	steps  int
	events int
}

func (m *mockMetrics) ObserveStep(record.StepRecord, time.Duration) { m.steps++ }
func (m *mockMetrics) ObserveEvent(record.Event)                    { m.events++ }

func simTestConfig() *config.SimulationConfig {
	seed := int64(42)
	cfg := config.Default()
	cfg.Simulation.RandomSeed = &seed
	cfg.Simulation.Steps = 3
	cfg.Simulation.GridDensity = 4
	cfg.Network.InitialSensors = 5
	return cfg
}

func TestSimulatorTick(t *testing.T) {
	rw := &mockRowWriter{}
	sw := &mockStateWriter{}
	ew := &mockEventWriter{}
	sim, err := NewSimulator(simTestConfig(), rw, sw, ew, 0)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	sim.tick(context.Background())

	if len(sw.recs) != 1 {
		t.Fatalf("got %d state records, want 1", len(sw.recs))
	}
	rec := sw.recs[0]
	if rec.Step != 0 {
		t.Errorf("first record step = %d, want 0", rec.Step)
	}
	if len(rw.rows) != rec.TotalSensors {
		t.Errorf("got %d rows, want one per sensor (%d)", len(rw.rows), rec.TotalSensors)
	}
	for _, row := range rw.rows {
		if row.RunID != rec.RunID || row.Step != 0 {
			t.Errorf("row not tied to the step: %+v", row)
		}
	}

	// Deploy events accumulated at construction flush on the first tick.
	if len(ew.events) < 5 {
		t.Errorf("got %d events, want at least the 5 deploy events", len(ew.events))
	}
	for i := 0; i < 5; i++ {
		if ew.events[i].Type != record.EventDeployed {
			t.Errorf("event %d type = %q, want %q", i, ew.events[i].Type, record.EventDeployed)
		}
	}
}

func TestSimulatorRun(t *testing.T) {
	rw := &mockBatchRowWriter{}
	sw := &mockStateWriter{}
	metrics := &mockMetrics{}
	sim, err := NewSimulator(simTestConfig(), rw, sw, nil, 0, WithMetrics(metrics))
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sw.recs) != 3 {
		t.Fatalf("got %d state records, want 3", len(sw.recs))
	}
	for i, rec := range sw.recs {
		if rec.Step != i {
			t.Errorf("record %d step = %d", i, rec.Step)
		}
	}
	if rw.batches != 3 {
		t.Errorf("batch writer used %d times, want once per step", rw.batches)
	}
	if metrics.steps != 3 {
		t.Errorf("metrics observed %d steps, want 3", metrics.steps)
	}
	if metrics.events < 5 {
		t.Errorf("metrics observed %d events, want at least 5 deploys", metrics.events)
	}

	st := sim.Status()
	if !st.Done {
		t.Errorf("status not done after Run")
	}
	if st.Step != 3 || st.Steps != 3 {
		t.Errorf("status steps = %d/%d, want 3/3", st.Step, st.Steps)
	}
	if st.Coverage != sw.recs[2].Coverage {
		t.Errorf("status coverage = %v, want last record %v", st.Coverage, sw.recs[2].Coverage)
	}
	if got := len(sim.History()); got != 3 {
		t.Errorf("history has %d records, want 3", got)
	}
	if got := len(sim.Events()); got != metrics.events {
		t.Errorf("event log has %d entries, metrics saw %d", got, metrics.events)
	}
}

func TestSimulatorRunCancelled(t *testing.T) {
	sim, err := NewSimulator(simTestConfig(), nil, &mockStateWriter{}, nil, time.Hour)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.Run(ctx); err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	if sim.Status().Done {
		t.Errorf("cancelled run must not report done")
	}
}

func TestSimulatorNilWriters(t *testing.T) {
	sim, err := NewSimulator(simTestConfig(), nil, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := sim.Run(context.Background()); err != nil {
		t.Fatalf("Run with nil writers: %v", err)
	}
	if got := len(sim.Snapshot()); got < 5 {
		t.Errorf("snapshot has %d sensors, want at least the initial 5", got)
	}
}
