package sim

import (
	"encoding/json"
	"os"

	"sensornet-sim/internal/record"
)

// FileWriter writes sensor rows, step records, and events to JSONL files.
// The step-record file is what the replay and report commands consume.
type FileWriter struct {
	rowFile   *os.File
	stateFile *os.File
	eventFile *os.File
	rowEnc    *json.Encoder
	stateEnc  *json.Encoder
	eventEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. rowPath or eventPath may be empty to
// skip those logs; statePath is required.
func NewFileWriter(statePath, rowPath, eventPath string) (*FileWriter, error) {
	sf, err := os.Create(statePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{stateFile: sf, stateEnc: json.NewEncoder(sf)}
	if rowPath != "" {
		rf, err := os.Create(rowPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.rowFile = rf
		fw.rowEnc = json.NewEncoder(rf)
	}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			if fw.rowFile != nil {
				fw.rowFile.Close()
			}
			sf.Close()
			return nil, err
		}
		fw.eventFile = ef
		fw.eventEnc = json.NewEncoder(ef)
	}
	return fw, nil
}

// WriteState logs a single step record.
func (f *FileWriter) WriteState(rec record.StepRecord) error {
	return f.stateEnc.Encode(rec)
}

// WriteStates logs multiple step records.
func (f *FileWriter) WriteStates(recs []record.StepRecord) error {
	for _, r := range recs {
		if err := f.WriteState(r); err != nil {
			return err
		}
	}
	return nil
}

// Write logs a single sensor row, if enabled.
func (f *FileWriter) Write(row record.SensorRow) error {
	if f.rowEnc == nil {
		return nil
	}
	return f.rowEnc.Encode(row)
}

// WriteBatch logs multiple sensor rows.
func (f *FileWriter) WriteBatch(rows []record.SensorRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single event, if enabled.
func (f *FileWriter) WriteEvent(ev record.Event) error {
	if f.eventEnc == nil {
		return nil
	}
	return f.eventEnc.Encode(ev)
}

// WriteEvents logs multiple events.
func (f *FileWriter) WriteEvents(events []record.Event) error {
	for _, ev := range events {
		if err := f.WriteEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.stateFile != nil {
		if e := f.stateFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.rowFile != nil {
		if e := f.rowFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.eventFile != nil {
		if e := f.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
