package sim

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"sensornet-sim/internal/record"
)

// ReplayHistory replays step records from r to writer. A speed > 0 paces
// playback by the recorded timestamps; speed <= 0 inserts no delay.
func ReplayHistory(r io.Reader, writer StateWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var rec record.StepRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := rec.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteState(rec); err != nil {
			return err
		}
		prev = rec.Timestamp
	}
}

// ReplayHistoryFile opens a JSONL history file and replays its records.
func ReplayHistoryFile(path string, writer StateWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayHistory(f, writer, speed)
}

// LoadHistoryFile reads a whole JSONL history file into memory, for the
// report command.
func LoadHistoryFile(path string) ([]record.StepRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []record.StepRecord
	dec := json.NewDecoder(f)
	for {
		var rec record.StepRecord
		if err := dec.Decode(&rec); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		out = append(out, rec)
	}
}
