// Package observability exposes Prometheus metrics for a simulation run.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sensornet-sim/internal/record"
)

// Collector bundles Prometheus metrics for the simulation loop and satisfies
// the simulator's Metrics interface.
type Collector struct {
	gatherer prometheus.Gatherer

	CoverageRatio prometheus.Gauge
	ActiveSensors prometheus.Gauge
	TotalSensors  prometheus.Gauge
	StepsTotal    prometheus.Counter
	Transitions   *prometheus.CounterVec
	StepDuration  prometheus.Histogram
}

// NewCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		CoverageRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensornet_coverage_ratio",
			Help: "Estimated covered fraction of the volume after the last step.",
		}),
		ActiveSensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensornet_active_sensors",
			Help: "Number of active sensors after the last step.",
		}),
		TotalSensors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensornet_total_sensors",
			Help: "Total sensors ever deployed, inactive ones included.",
		}),
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sensornet_steps_total",
			Help: "Completed simulation steps.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensornet_sensor_transitions_total",
			Help: "Sensor state transitions, labeled by event type and sensor kind.",
		}, []string{"event_type", "kind"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sensornet_step_duration_seconds",
			Help:    "Wall-clock duration of one simulation step, dominated by the coverage grid scan.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}

	collectors := []prometheus.Collector{
		c.CoverageRatio, c.ActiveSensors, c.TotalSensors,
		c.StepsTotal, c.Transitions, c.StepDuration,
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return c, nil
}

// ObserveStep records the per-step gauges and the step duration.
func (c *Collector) ObserveStep(rec record.StepRecord, stepDuration time.Duration) {
	if c == nil {
		return
	}
	c.CoverageRatio.Set(rec.Coverage)
	c.ActiveSensors.Set(float64(rec.ActiveSensors))
	c.TotalSensors.Set(float64(rec.TotalSensors))
	c.StepsTotal.Inc()
	c.StepDuration.Observe(stepDuration.Seconds())
}

// ObserveEvent counts a sensor state transition.
func (c *Collector) ObserveEvent(ev record.Event) {
	if c == nil {
		return
	}
	c.Transitions.WithLabelValues(string(ev.Type), ev.Kind).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
