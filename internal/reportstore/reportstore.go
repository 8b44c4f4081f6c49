// Package reportstore is an optional, best-effort local cache of past
// orchestrator runs (spec §4.13) — not the relational persistence of
// uploaded-trace data spec.md §1 explicitly excludes from the core.
package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"gpstrace.dev/internal/trip"
)

// Store wraps a sqlite-backed history of orchestrator runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate report store: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	ran_at TIMESTAMP NOT NULL,
	vehicle_name TEXT NOT NULL,
	route_name TEXT NOT NULL,
	distance_km_str TEXT NOT NULL,
	loops INTEGER NOT NULL,
	speed_violations INTEGER NOT NULL,
	stop_violations INTEGER NOT NULL,
	liveness_total_s REAL NOT NULL
)`)
	return err
}

// Record is one persisted orchestrator run.
type Record struct {
	ID              string
	RanAt           time.Time
	VehicleName     string
	RouteName       string
	DistanceKmStr   string
	Loops           int
	SpeedViolations int
	StopViolations  int
	LivenessTotalS  float64
}

// Record persists one orchestrator run. Per spec §4.13, a failure here is
// never fatal to the analysis itself — callers log and continue.
func (s *Store) Record(ctx context.Context, runID, vehicleName, routeName string, ranAt time.Time, report trip.AnalyzeReport) error {
	var livenessTotal float64
	if report.Liveness != nil {
		livenessTotal = report.Liveness.TotalS
	}
	var loops int
	if report.Loops != nil {
		loops = *report.Loops
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, ran_at, vehicle_name, route_name, distance_km_str, loops, speed_violations, stop_violations, liveness_total_s)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ranAt, vehicleName, routeName, report.DistanceKmStr, loops,
		len(report.SpeedViolations), len(report.StopViolations), livenessTotal)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns the limit most recently recorded runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, ran_at, vehicle_name, route_name, distance_km_str, loops, speed_violations, stop_violations, liveness_total_s
FROM runs ORDER BY ran_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.RanAt, &rec.VehicleName, &rec.RouteName,
			&rec.DistanceKmStr, &rec.Loops, &rec.SpeedViolations, &rec.StopViolations, &rec.LivenessTotalS); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
