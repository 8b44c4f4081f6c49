package analytics

import (
	"time"

	"gpstrace.dev/internal/geo"
	"gpstrace.dev/internal/trace"
)

// SpeedMode selects how per-segment speed is computed (spec §4.6).
type SpeedMode int

const (
	// Explicit uses each sample's recorded Speed field when present,
	// falling back to the haversine/elapsed-time computation otherwise.
	Explicit SpeedMode = iota
	// Location always derives speed from haversine distance and elapsed
	// time, ignoring any recorded Speed field.
	Location
)

// SpeedViolation is a maximal run of samples whose speed stayed at or above
// the threshold for at least the configured minimum duration.
type SpeedViolation struct {
	StartTime, EndTime   time.Time
	StartPoint, EndPoint geo.Point
	DurationS            float64
}

// AnalyzeSpeed implements spec §4.6. Traces with fewer than 2 samples
// produce no violations. A run that is still above threshold when the
// stream runs out of samples to evaluate is discarded, not flushed,
// matching the source this spec was distilled from.
func AnalyzeSpeed(stream trace.Stream, mode SpeedMode, speedKmh, minDurationS float64) []SpeedViolation {
	n := len(stream)
	if n < 2 {
		return nil
	}

	var violations []SpeedViolation
	var elapsed float64
	inRun := false
	var startPoint trace.Sample

	for i := 0; i < n; i++ {
		speed, ok := speedAt(stream, mode, i)
		if !ok {
			// No following sample to pair with, and no explicit speed
			// usable on the last sample (none recorded, or Location
			// mode): there is nothing left to evaluate, so any open run
			// is discarded rather than closed.
			break
		}

		if speed >= speedKmh {
			if !inRun {
				startPoint = stream[i]
				inRun = true
				continue
			}
			// Accumulates the gap behind the current sample (t_i -
			// t_{i-1}), not the gap ahead (t_{i+1}-t_i): preserved
			// verbatim from the source, see DESIGN.md (Open Questions).
			elapsed += stream[i].Time.Sub(stream[i-1].Time).Seconds()
			continue
		}

		if inRun && elapsed >= minDurationS {
			violations = append(violations, SpeedViolation{
				StartTime:  startPoint.Time,
				EndTime:    stream[i-1].Time,
				StartPoint: startPoint.Point(),
				EndPoint:   stream[i-1].Point(),
				DurationS:  elapsed,
			})
		}
		elapsed = 0
		inRun = false
	}

	return violations
}

// speedAt returns the speed attributed to sample i and whether it could be
// computed at all. Explicit mode prefers the sample's own recorded speed,
// which lets the final sample in the stream close a run on its own; every
// other path needs a following sample to derive speed from distance/time.
func speedAt(stream trace.Stream, mode SpeedMode, i int) (speed float64, ok bool) {
	if mode == Explicit && stream[i].Speed != nil {
		return *stream[i].Speed, true
	}
	if i+1 >= len(stream) {
		return 0, false
	}
	hours := stream[i+1].Time.Sub(stream[i].Time).Hours()
	if hours <= 0 {
		return 0, true
	}
	return geo.Haversine(stream[i].Point(), stream[i+1].Point()) / hours, true
}
