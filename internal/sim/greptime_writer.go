package sim

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"sensornet-sim/internal/record"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// GreptimeDBWriter writes per-sensor rows to GreptimeDB via the ingester
// client.
type GreptimeDBWriter struct {
	client *greptime.Client
	db     string
	table  string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer and auto-creates the
// table if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host = endpoint
		portStr = ""
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg = cfg.WithPort(port)
		}
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	// The ingester client cannot execute DDL; GreptimeDB auto-creates the
	// table on first write. Intended schema (with ttl='30d'), kept for
	// reference:
	//
	// CREATE TABLE IF NOT EXISTS <record.SensorTableName> (
	//   run_id STRING TAG,
	//   sensor_id STRING TAG,
	//   kind STRING TAG,
	//   x DOUBLE,
	//   y DOUBLE,
	//   z DOUBLE,
	//   radius DOUBLE,
	//   battery DOUBLE,
	//   active BOOLEAN,
	//   step BIGINT,
	//   ts TIMESTAMP TIME INDEX
	// ) WITH (ttl='30d')

	return &GreptimeDBWriter{
		client: client,
		db:     database,
		table:  record.SensorTableName,
	}, nil
}

// Write inserts a single sensor row.
func (w *GreptimeDBWriter) Write(row record.SensorRow) error {
	return w.WriteBatch([]record.SensorRow{row})
}

// WriteBatch inserts multiple sensor rows.
func (w *GreptimeDBWriter) WriteBatch(rows []record.SensorRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.New(context.Background())

	tbl, err := table.New(w.table)
	if err != nil {
		return err
	}
	if err := tbl.AddTagColumn("run_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("sensor_id", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddTagColumn("kind", types.STRING); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("x", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("y", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("z", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("radius", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("battery", types.FLOAT64); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("active", types.BOOLEAN); err != nil {
		return err
	}
	if err := tbl.AddFieldColumn("step", types.INT64); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}

	for _, r := range rows {
		if err := tbl.AddRow(
			r.RunID,
			r.SensorID,
			r.Kind,
			r.X,
			r.Y,
			r.Z,
			r.Radius,
			r.Battery,
			r.Active,
			int64(r.Step),
			r.Timestamp,
		); err != nil {
			return err
		}
	}

	if _, err := w.client.Write(ctx, tbl); err != nil {
		slog.Error("greptime write failed", "err", err)
		return err
	}
	return nil
}
