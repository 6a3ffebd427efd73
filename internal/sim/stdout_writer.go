// Writer implementation printing rows to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sensornet-sim/internal/record"
)

// StdoutWriter prints sensor rows, step records, and events as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single sensor row.
func (w *StdoutWriter) Write(row record.SensorRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple sensor rows.
func (w *StdoutWriter) WriteBatch(rows []record.SensorRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteState outputs a step record.
func (w *StdoutWriter) WriteState(rec record.StepRecord) error {
	data, _ := json.Marshal(rec)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteStates outputs multiple step records.
func (w *StdoutWriter) WriteStates(recs []record.StepRecord) error {
	for _, r := range recs {
		_ = w.WriteState(r)
	}
	return nil
}

// WriteEvent outputs a state-transition event.
func (w *StdoutWriter) WriteEvent(ev record.Event) error {
	data, _ := json.Marshal(ev)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteEvents outputs multiple events.
func (w *StdoutWriter) WriteEvents(events []record.Event) error {
	for _, ev := range events {
		_ = w.WriteEvent(ev)
	}
	return nil
}
