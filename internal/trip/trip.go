// Package trip composes the grid, path encoder, and analyzer packages into
// the orchestration contract of spec §4.10: one call per trace that runs
// every analyzer whose parameters are present and collects the rest as
// warnings instead of failing outright.
package trip

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"gpstrace.dev/internal/analytics"
	"gpstrace.dev/internal/grid"
	"gpstrace.dev/internal/loop"
	"gpstrace.dev/internal/pathenc"
	"gpstrace.dev/internal/trace"
)

// Parameters holds the six analysis parameters as optional pointers so an
// absent value is distinguishable from zero (spec §3/§4.11).
type Parameters struct {
	CellSizeKm       *float64
	StopMinS         *float64
	StopMaxS         *float64
	SpeedingSpeedKmh *float64
	SpeedingTimeS    *float64
	LivenessGapS     *float64
}

// AnalyzeInputs is everything Run needs for one trace.
type AnalyzeInputs struct {
	VehicleSamples trace.Stream
	RouteSamples   trace.Stream
	StopZones      []trace.StopZone
	Params         Parameters
}

// LivenessReport mirrors analytics.LivenessResult with JSON-friendly names.
type LivenessReport struct {
	TotalS   float64                     `json:"total_s"`
	Segments []analytics.LivenessSegment `json:"segments"`
}

// AnalyzeReport is the composed result described in spec §4.10. Fields for
// analyzers that could not run (missing parameters) are left nil and
// omitted from JSON, so a genuine zero result (e.g. Loops pointing at 0)
// stays distinguishable from "this analyzer didn't run."
type AnalyzeReport struct {
	DistanceKmStr   string                     `json:"distance_km_str"`
	Loops           *int                       `json:"loops,omitempty"`
	SpeedViolations []analytics.SpeedViolation `json:"speed_violations,omitempty"`
	StopViolations  []analytics.StopViolation  `json:"stop_violations,omitempty"`
	Liveness        *LivenessReport            `json:"liveness,omitempty"`
}

// Run drives C3-C9 over in and returns the composed report alongside any
// per-analyzer warnings. A non-empty error slice does not mean the report is
// empty: analyzers that did run still populate their fields.
func Run(ctx context.Context, in AnalyzeInputs) (AnalyzeReport, []error) {
	var report AnalyzeReport
	var errs []error

	_, report.DistanceKmStr = analytics.Distance(in.VehicleSamples)

	if in.Params.CellSizeKm == nil {
		errs = append(errs, &ParameterError{Field: "cell_size_km", Reason: "required by the loop counter"})
	} else if loops, err := runLoopAnalysis(in.VehicleSamples, in.RouteSamples, *in.Params.CellSizeKm); err != nil {
		errs = append(errs, err)
	} else {
		report.Loops = &loops
	}

	switch {
	case in.Params.SpeedingSpeedKmh == nil:
		errs = append(errs, &ParameterError{Field: "speeding_speed_kmh", Reason: "required by the speed analyzer"})
	case in.Params.SpeedingTimeS == nil:
		errs = append(errs, &ParameterError{Field: "speeding_time_s", Reason: "required by the speed analyzer"})
	default:
		report.SpeedViolations = analytics.AnalyzeSpeed(in.VehicleSamples, analytics.Explicit, *in.Params.SpeedingSpeedKmh, *in.Params.SpeedingTimeS)
	}

	switch {
	case in.Params.StopMinS == nil:
		errs = append(errs, &ParameterError{Field: "stop_min_s", Reason: "required by the stop analyzer"})
	case in.Params.StopMaxS == nil:
		errs = append(errs, &ParameterError{Field: "stop_max_s", Reason: "required by the stop analyzer"})
	default:
		report.StopViolations = analytics.AnalyzeStops(in.VehicleSamples, in.StopZones, *in.Params.StopMinS, *in.Params.StopMaxS)
	}

	if in.Params.LivenessGapS == nil {
		errs = append(errs, &ParameterError{Field: "liveness_gap_s", Reason: "required by the liveness analyzer"})
	} else {
		result := analytics.AnalyzeLiveness(in.VehicleSamples, *in.Params.LivenessGapS)
		report.Liveness = &LivenessReport{TotalS: result.TotalS, Segments: result.Segments}
	}

	return report, errs
}

// CombineErrors folds Run's warning slice into a single error via multierr,
// for callers that would rather check one error than range over a slice.
func CombineErrors(errs []error) error {
	return multierr.Combine(errs...)
}

func runLoopAnalysis(vehicle, route trace.Stream, cellSizeKm float64) (int, error) {
	g, err := grid.Build(vehicle, cellSizeKm)
	if err != nil {
		var derr *grid.DegenerateGridError
		if errors.As(err, &derr) {
			return 0, &DegenerateGridError{Width: derr.Width, Height: derr.Height}
		}
		return 0, fmt.Errorf("building grid: %w", err)
	}

	vehiclePath := pathenc.Encode(vehicle, g)
	routePath := pathenc.Encode(route, g)

	return loop.Count(routePath, vehiclePath, g).Loops, nil
}
