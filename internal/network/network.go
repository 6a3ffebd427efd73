// Package network owns the sensor collection and drives the per-step
// evolution: update, heal, record.
package network

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"sensornet-sim/internal/config"
	"sensornet-sim/internal/coverage"
	"sensornet-sim/internal/record"
	"sensornet-sim/internal/sensor"
)

// Initial deployment draws economy sensors with this probability; the rest
// are premium.
const economyDeployProbability = 0.7

// Observer receives state-transition events as they happen.
type Observer func(record.Event)

// Option customizes a Network at construction.
type Option func(*Network)

// WithObserver registers a callback for sensor state-transition events.
func WithObserver(fn Observer) Option {
	return func(n *Network) { n.observer = fn }
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(n *Network) { n.now = now }
}

// WithEstimatorWorkers parallelizes the coverage scan across the given number
// of workers.
func WithEstimatorWorkers(w int) Option {
	return func(n *Network) { n.est.Workers = w }
}

// WithLogger sets the logger used for step statistics.
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) { n.log = l }
}

// Network is the simulation controller. It owns the sensors, the single
// seeded random source behind every stochastic draw, and the append-only
// history. It is not safe for concurrent use; callers serialize access.
type Network struct {
	cfg      *config.SimulationConfig
	rng      *rand.Rand
	est      coverage.Estimator
	runID    string
	sensors  []*sensor.Sensor
	counter  int
	history  []record.StepRecord
	step     int
	observer Observer
	now      func() time.Time
	log      *slog.Logger
}

// New validates the configuration, seeds the generator, and deploys the
// initial sensor batch.
func New(cfg *config.SimulationConfig, opts ...Option) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if cfg.Simulation.RandomSeed != nil {
		seed = *cfg.Simulation.RandomSeed
	}
	n := &Network{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		est:   coverage.New(cfg.Simulation.GridDensity),
		runID: uuid.New().String(),
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.deployInitialSensors()
	n.log.Info("network initialized", "run_id", n.runID, "sensors", len(n.sensors), "seed", seed)
	return n, nil
}

func (n *Network) deployInitialSensors() {
	for i := 0; i < n.cfg.Network.InitialSensors; i++ {
		kind := sensor.KindEconomy
		if n.rng.Float64() >= economyDeployProbability {
			kind = sensor.KindPremium
		}
		s := n.addSensor(kind)
		n.emit(record.EventDeployed, s, 0)
	}
}

// addSensor creates a sensor with parameters drawn uniformly from the
// configured ranges and the next unused id. Ids are never reused.
func (n *Network) addSensor(kind sensor.Kind) *sensor.Sensor {
	b := n.Bounds()
	pos := sensor.Point{
		X: n.uniform(0, b.X),
		Y: n.uniform(0, b.Y),
		Z: n.uniform(0, b.Z),
	}
	sc := n.cfg.Sensor
	params := sensor.Params{
		Radius:             n.uniform(sc.RadiusRange[0], sc.RadiusRange[1]),
		Lifespan:           n.uniform(sc.LifespanRange[0], sc.LifespanRange[1]),
		MobilityFactor:     n.uniform(sc.MobilityRange[0], sc.MobilityRange[1]),
		FailureProbability: n.uniform(sc.FailureProbabilityRange[0], sc.FailureProbabilityRange[1]),
	}
	s := sensor.New(n.counter, kind, pos, params)
	n.sensors = append(n.sensors, s)
	n.counter++
	return s
}

func (n *Network) uniform(lo, hi float64) float64 {
	return lo + n.rng.Float64()*(hi-lo)
}

// Step advances the simulation by one discrete step: update every sensor in
// collection order, heal coverage, and build the step record. The record is
// retained in the history only when save_history is enabled.
func (n *Network) Step() record.StepRecord {
	idx := n.step

	bounds := n.Bounds()
	for _, s := range n.sensors {
		s.Move(n.rng, bounds)
		if s.CheckFailure(n.rng) {
			n.emit(record.EventFailed, s, 0)
		}
		if s.Degrade(1.0) {
			n.emit(record.EventDepleted, s, 0)
		}
	}

	cov := n.heal()

	rec := n.buildRecord(idx, cov)
	if n.cfg.Simulation.SaveHistory {
		n.history = append(n.history, rec)
	}
	n.step++
	n.log.Debug("step complete",
		"step", idx,
		"coverage", cov,
		"active", rec.ActiveSensors,
		"total", rec.TotalSensors)
	return rec
}

// heal adds premium sensors until coverage clears the threshold or the
// attempt budget is exhausted. Exhausting the budget is not an error; the
// run continues regardless.
func (n *Network) heal() float64 {
	bounds := n.Bounds()
	cov := n.est.Ratio(n.sensors, bounds)
	attempts := 0
	for cov < n.cfg.Network.CoverageThreshold && attempts < n.cfg.Network.HealingMaxAttempts {
		s := n.addSensor(sensor.KindPremium)
		cov = n.est.Ratio(n.sensors, bounds)
		attempts++
		n.emit(record.EventHealed, s, cov)
	}
	if attempts > 0 && cov < n.cfg.Network.CoverageThreshold {
		n.log.Info("healing budget exhausted below threshold",
			"coverage", cov,
			"threshold", n.cfg.Network.CoverageThreshold,
			"added", attempts)
	}
	return cov
}

// Run drives the network for the given number of steps, or the configured
// step count when steps <= 0.
func (n *Network) Run(steps int) {
	if steps <= 0 {
		steps = n.cfg.Simulation.Steps
	}
	for i := 0; i < steps; i++ {
		n.Step()
	}
}

func (n *Network) buildRecord(step int, cov float64) record.StepRecord {
	rec := record.StepRecord{
		RunID:        n.runID,
		Step:         step,
		TotalSensors: len(n.sensors),
		Coverage:     cov,
		Sensors:      make([]record.SensorSnapshot, 0, len(n.sensors)),
		Timestamp:    n.now().UTC(),
	}
	for _, s := range n.sensors {
		if s.Active {
			rec.ActiveSensors++
		}
		rec.Sensors = append(rec.Sensors, record.SensorSnapshot{
			ID:       s.ID,
			Kind:     string(s.Kind),
			Position: [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			Active:   s.Active,
			Battery:  s.Battery,
		})
	}
	return rec
}

func (n *Network) emit(t record.EventType, s *sensor.Sensor, cov float64) {
	if n.observer == nil {
		return
	}
	n.observer(record.Event{
		RunID:     n.runID,
		Step:      n.step,
		Type:      t,
		SensorID:  s.ID,
		Kind:      string(s.Kind),
		Coverage:  cov,
		Timestamp: n.now().UTC(),
	})
}

// Coverage returns the current coverage ratio.
func (n *Network) Coverage() float64 {
	return n.est.Ratio(n.sensors, n.Bounds())
}

// Sensors returns a read-only view of every sensor, inactive ones included.
func (n *Network) Sensors() []record.SensorState {
	out := make([]record.SensorState, len(n.sensors))
	for i, s := range n.sensors {
		out[i] = record.SensorState{
			ID:       s.ID,
			Kind:     string(s.Kind),
			Position: [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			Radius:   s.Radius,
			Active:   s.Active,
			Battery:  s.Battery,
		}
	}
	return out
}

// History returns a copy of the recorded step history.
func (n *Network) History() []record.StepRecord {
	h := make([]record.StepRecord, len(n.history))
	copy(h, n.history)
	return h
}

// Bounds returns the bounding box of the volume.
func (n *Network) Bounds() sensor.Point {
	b := n.cfg.Network.Bounds
	return sensor.Point{X: b[0], Y: b[1], Z: b[2]}
}

// Counter returns the monotonic id source, equal to the number of sensors
// ever created.
func (n *Network) Counter() int { return n.counter }

// RunID identifies this network instance on every emitted row and record.
func (n *Network) RunID() string { return n.runID }

// StepCount returns the number of completed steps.
func (n *Network) StepCount() int { return n.step }
