// Package store persists step histories to SQLite for later reporting.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"sensornet-sim/internal/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS step_records (
	run_id         TEXT NOT NULL,
	step           INTEGER NOT NULL,
	active_sensors INTEGER NOT NULL,
	total_sensors  INTEGER NOT NULL,
	coverage       REAL NOT NULL,
	sensors        TEXT NOT NULL,
	ts             TEXT NOT NULL,
	PRIMARY KEY (run_id, step)
);
`

// Store wraps a SQLite database holding step records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// WriteState persists one step record, so a Store can sit directly behind
// the simulator as a state writer.
func (s *Store) WriteState(rec record.StepRecord) error {
	sensors, err := json.Marshal(rec.Sensors)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO step_records (run_id, step, active_sensors, total_sensors, coverage, sensors, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Step, rec.ActiveSensors, rec.TotalSensors, rec.Coverage,
		string(sensors), rec.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
	)
	return err
}

// WriteStates persists multiple step records in one transaction.
func (s *Store) WriteStates(recs []record.StepRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		sensors, err := json.Marshal(rec.Sensors)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO step_records (run_id, step, active_sensors, total_sensors, coverage, sensors, ts)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID, rec.Step, rec.ActiveSensors, rec.TotalSensors, rec.Coverage,
			string(sensors), rec.Timestamp.Format("2006-01-02T15:04:05.999999999Z07:00"),
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// History returns the step records of one run in step order.
func (s *Store) History(runID string) ([]record.StepRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, step, active_sensors, total_sensors, coverage, sensors, ts
		 FROM step_records WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.StepRecord
	for rows.Next() {
		var rec record.StepRecord
		var sensors, ts string
		if err := rows.Scan(&rec.RunID, &rec.Step, &rec.ActiveSensors, &rec.TotalSensors, &rec.Coverage, &sensors, &ts); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sensors), &rec.Sensors); err != nil {
			return nil, err
		}
		if err := rec.Timestamp.UnmarshalText([]byte(ts)); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Runs lists the distinct run ids present in the store.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT run_id FROM step_records ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
