package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"sensornet-sim/internal/config"
	"sensornet-sim/internal/observability"
	"sensornet-sim/internal/record"
	"sensornet-sim/internal/sim"
)

func newTestServer(t *testing.T, metrics *observability.Collector) *Server {
	t.Helper()
	seed := int64(42)
	cfg := config.Default()
	cfg.Simulation.RandomSeed = &seed
	cfg.Simulation.Steps = 2
	cfg.Simulation.GridDensity = 4
	cfg.Network.InitialSensors = 5

	simulator, err := sim.NewSimulator(cfg, nil, nil, nil, 0)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := simulator.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return NewServer(simulator, metrics)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := get(t, srv.Handler(), "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rr.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := get(t, srv.Handler(), "/api/status")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var st sim.Status
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.Done {
		t.Errorf("status not done after finished run: %+v", st)
	}
	if st.Step != 2 || st.Steps != 2 {
		t.Errorf("status steps = %d/%d, want 2/2", st.Step, st.Steps)
	}
	if st.RunID == "" {
		t.Errorf("status missing run id")
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := get(t, srv.Handler(), "/api/snapshot")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var states []record.SensorState
	if err := json.Unmarshal(rr.Body.Bytes(), &states); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(states) < 5 {
		t.Errorf("snapshot has %d sensors, want at least the initial 5", len(states))
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := get(t, srv.Handler(), "/api/history")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var history []record.StepRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history has %d records, want 2", len(history))
	}
}

func TestEventsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := get(t, srv.Handler(), "/api/events")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var events []record.Event
	if err := json.Unmarshal(rr.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) < 5 {
		t.Errorf("got %d events, want at least the 5 deploys", len(events))
	}
	if events[0].Type != record.EventDeployed {
		t.Errorf("first event = %q, want %q", events[0].Type, record.EventDeployed)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	collector, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	srv := newTestServer(t, collector)
	if rr := get(t, srv.Handler(), "/metrics"); rr.Code != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", rr.Code)
	}

	// Without a collector the route is absent.
	srv = newTestServer(t, nil)
	if rr := get(t, srv.Handler(), "/metrics"); rr.Code == http.StatusOK {
		t.Errorf("metrics served without a collector")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rr.Code)
	}
}
