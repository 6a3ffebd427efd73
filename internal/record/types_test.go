package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStepRecordRoundTrip(t *testing.T) {
	rec := StepRecord{
		RunID:         "run-1",
		Step:          4,
		ActiveSensors: 18,
		TotalSensors:  22,
		Coverage:      0.815,
		Sensors: []SensorSnapshot{
			{ID: 0, Kind: "economy", Position: [3]float64{1, 2, 3}, Active: true, Battery: 0.9},
			{ID: 21, Kind: "premium", Position: [3]float64{4, 5, 6}, Active: false, Battery: 0},
		},
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got StepRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.RunID != rec.RunID || got.Step != rec.Step {
		t.Errorf("identity fields changed: %+v", got)
	}
	if got.ActiveSensors != rec.ActiveSensors || got.TotalSensors != rec.TotalSensors {
		t.Errorf("counts changed: %+v", got)
	}
	if got.Coverage != rec.Coverage {
		t.Errorf("coverage = %v, want %v", got.Coverage, rec.Coverage)
	}
	if len(got.Sensors) != 2 || got.Sensors[1] != rec.Sensors[1] {
		t.Errorf("snapshots changed: %+v", got.Sensors)
	}
	if !got.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, rec.Timestamp)
	}
}

func TestSensorRowTableName(t *testing.T) {
	if got := (SensorRow{}).TableName(); got != "sensor_telemetry" {
		t.Errorf("default table name = %q, want sensor_telemetry", got)
	}

	old := SensorTableName
	defer func() { SensorTableName = old }()
	SensorTableName = "custom_table"
	if got := (SensorRow{}).TableName(); got != "custom_table" {
		t.Errorf("overridden table name = %q, want custom_table", got)
	}
}

func TestEventJSONFields(t *testing.T) {
	ev := Event{
		RunID:     "run-1",
		Step:      2,
		Type:      EventHealed,
		SensorID:  30,
		Kind:      "premium",
		Coverage:  0.79,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["event_type"] != "healed" {
		t.Errorf("event_type = %v, want healed", m["event_type"])
	}
	if m["sensor_id"] != float64(30) {
		t.Errorf("sensor_id = %v, want 30", m["sensor_id"])
	}

	// Coverage is omitted for transitions that carry none.
	data, err = json.Marshal(Event{Type: EventFailed, SensorID: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m = map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := m["coverage"]; present {
		t.Errorf("zero coverage should be omitted: %s", data)
	}
}
