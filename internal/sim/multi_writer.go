package sim

import "sensornet-sim/internal/record"

// MultiWriter fans sensor rows, step records, and events out to multiple
// writers.
type MultiWriter struct {
	rowWriters   []TelemetryWriter
	stateWriters []StateWriter
	eventWriters []EventWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(rws []TelemetryWriter, sws []StateWriter, ews []EventWriter) *MultiWriter {
	return &MultiWriter{rowWriters: rws, stateWriters: sws, eventWriters: ews}
}

// Write sends a sensor row to all writers.
func (mw *MultiWriter) Write(row record.SensorRow) error {
	for _, w := range mw.rowWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple sensor rows to all writers, using batch mode if
// supported.
func (mw *MultiWriter) WriteBatch(rows []record.SensorRow) error {
	for _, w := range mw.rowWriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteState sends a step record to all state writers.
func (mw *MultiWriter) WriteState(rec record.StepRecord) error {
	for _, w := range mw.stateWriters {
		if err := w.WriteState(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteStates sends multiple step records to all state writers, using batch
// mode if supported.
func (mw *MultiWriter) WriteStates(recs []record.StepRecord) error {
	for _, w := range mw.stateWriters {
		if bw, ok := w.(batchStateWriter); ok {
			if err := bw.WriteStates(recs); err != nil {
				return err
			}
			continue
		}
		for _, r := range recs {
			if err := w.WriteState(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends an event to all event writers.
func (mw *MultiWriter) WriteEvent(ev record.Event) error {
	for _, w := range mw.eventWriters {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvents sends multiple events to all event writers, using batch mode
// if supported.
func (mw *MultiWriter) WriteEvents(events []record.Event) error {
	for _, w := range mw.eventWriters {
		if bw, ok := w.(batchEventWriter); ok {
			if err := bw.WriteEvents(events); err != nil {
				return err
			}
			continue
		}
		for _, ev := range events {
			if err := w.WriteEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
