// Record types shared by the network core and its output sinks.
package record

import (
	"os"
	"time"
)

// SensorSnapshot is the per-sensor entry embedded in a StepRecord.
type SensorSnapshot struct {
	ID       int        `json:"id"`
	Kind     string     `json:"type"`
	Position [3]float64 `json:"position"`
	Active   bool       `json:"active"`
	Battery  float64    `json:"battery"`
}

// StepRecord captures controller-visible state at the end of one step.
// Records are immutable once appended to the history.
type StepRecord struct {
	RunID         string           `json:"run_id"`
	Step          int              `json:"step"`
	ActiveSensors int              `json:"active_sensors"`
	TotalSensors  int              `json:"total_sensors"`
	Coverage      float64          `json:"coverage"`
	Sensors       []SensorSnapshot `json:"sensors"`
	Timestamp     time.Time        `json:"ts"`
}

// SensorState is the read-only sensor view exposed to external collaborators.
// Unlike SensorSnapshot it carries the coverage radius.
type SensorState struct {
	ID       int        `json:"id"`
	Kind     string     `json:"type"`
	Position [3]float64 `json:"position"`
	Radius   float64    `json:"radius"`
	Active   bool       `json:"active"`
	Battery  float64    `json:"battery"`
}

// SensorRow is a flattened per-sensor, per-step row for time-series sinks.
type SensorRow struct {
	RunID     string    `json:"run_id"`    // TAG
	SensorID  string    `json:"sensor_id"` // TAG
	Kind      string    `json:"kind"`      // TAG
	X         float64   `json:"x"`         // FIELD
	Y         float64   `json:"y"`         // FIELD
	Z         float64   `json:"z"`         // FIELD
	Radius    float64   `json:"radius"`    // FIELD
	Battery   float64   `json:"battery"`   // FIELD
	Active    bool      `json:"active"`    // FIELD
	Step      int       `json:"step"`      // FIELD
	Timestamp time.Time `json:"ts"`        // TIME INDEX
}

// SensorTableName holds the table name used when writing to GreptimeDB.
// It defaults to "sensor_telemetry" but can be overridden via the
// SENSORNET_TABLE environment variable.
var SensorTableName = func() string {
	if env := os.Getenv("SENSORNET_TABLE"); env != "" {
		return env
	}
	return "sensor_telemetry"
}()

func (SensorRow) TableName() string {
	return SensorTableName
}

// EventType classifies sensor state transitions.
type EventType string

const (
	EventDeployed EventType = "deployed"
	EventFailed   EventType = "failed"
	EventDepleted EventType = "depleted"
	EventHealed   EventType = "healed"
)

// Event is an observable state-transition record emitted by the network.
type Event struct {
	RunID     string    `json:"run_id"`
	Step      int       `json:"step"`
	Type      EventType `json:"event_type"`
	SensorID  int       `json:"sensor_id"`
	Kind      string    `json:"sensor_kind"`
	Coverage  float64   `json:"coverage,omitempty"`
	Timestamp time.Time `json:"ts"`
}
