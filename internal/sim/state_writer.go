package sim

import "sensornet-sim/internal/record"

// TelemetryWriter is an interface to support different per-sensor row sinks.
type TelemetryWriter interface {
	Write(record.SensorRow) error
}

// Optional: writers can also support batch mode.
type batchWriter interface {
	WriteBatch([]record.SensorRow) error
}

// StateWriter handles per-step state records.
type StateWriter interface {
	WriteState(record.StepRecord) error
}

// Optional: writers may support batch mode for state records.
type batchStateWriter interface {
	WriteStates([]record.StepRecord) error
}

// EventWriter handles sensor state-transition events.
type EventWriter interface {
	WriteEvent(record.Event) error
}

// Optional: event writers may support batch mode.
type batchEventWriter interface {
	WriteEvents([]record.Event) error
}
