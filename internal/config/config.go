// Package config loads the six analysis parameters from a YAML document
// (spec §4.11) and validates any values that were supplied.
package config

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"gpstrace.dev/internal/trip"
)

// raw mirrors the YAML document shape; every field is a pointer so an
// omitted key is distinguishable from an explicit zero.
type raw struct {
	CellSizeKm       *float64 `yaml:"cell_size_km"`
	StopMinS         *float64 `yaml:"stop_min_s"`
	StopMaxS         *float64 `yaml:"stop_max_s"`
	SpeedingSpeedKmh *float64 `yaml:"speeding_speed_kmh"`
	SpeedingTimeS    *float64 `yaml:"speeding_time_s"`
	LivenessGapS     *float64 `yaml:"liveness_gap_s"`
}

// Load decodes r into trip.Parameters and validates every present field
// against the invariants in spec §3. Any key may be omitted; omission is
// not itself an error here (the orchestrator's partial-failure policy
// handles that), but a present, invalid value is.
func Load(r io.Reader) (trip.Parameters, error) {
	var doc raw
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return trip.Parameters{}, fmt.Errorf("decoding parameters: %w", err)
	}

	if doc.CellSizeKm != nil && *doc.CellSizeKm <= 0 {
		return trip.Parameters{}, &trip.ParameterError{Field: "cell_size_km", Reason: "must be > 0"}
	}
	if doc.StopMinS != nil && *doc.StopMinS < 0 {
		return trip.Parameters{}, &trip.ParameterError{Field: "stop_min_s", Reason: "must be >= 0"}
	}
	if doc.StopMaxS != nil && doc.StopMinS != nil && *doc.StopMaxS < *doc.StopMinS {
		return trip.Parameters{}, &trip.ParameterError{Field: "stop_max_s", Reason: "must be >= stop_min_s"}
	}
	if doc.SpeedingSpeedKmh != nil && *doc.SpeedingSpeedKmh <= 0 {
		return trip.Parameters{}, &trip.ParameterError{Field: "speeding_speed_kmh", Reason: "must be > 0"}
	}
	if doc.SpeedingTimeS != nil && *doc.SpeedingTimeS < 0 {
		return trip.Parameters{}, &trip.ParameterError{Field: "speeding_time_s", Reason: "must be >= 0"}
	}
	if doc.LivenessGapS != nil && *doc.LivenessGapS <= 0 {
		return trip.Parameters{}, &trip.ParameterError{Field: "liveness_gap_s", Reason: "must be > 0"}
	}

	return trip.Parameters{
		CellSizeKm:       doc.CellSizeKm,
		StopMinS:         doc.StopMinS,
		StopMaxS:         doc.StopMaxS,
		SpeedingSpeedKmh: doc.SpeedingSpeedKmh,
		SpeedingTimeS:    doc.SpeedingTimeS,
		LivenessGapS:     doc.LivenessGapS,
	}, nil
}
