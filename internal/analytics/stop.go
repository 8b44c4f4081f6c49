package analytics

import (
	"time"

	"gpstrace.dev/internal/geo"
	"gpstrace.dev/internal/trace"
)

// StopViolationKind classifies a stop-zone dwell as too short or too long.
type StopViolationKind int

const (
	Below StopViolationKind = iota
	Above
)

func (k StopViolationKind) String() string {
	if k == Above {
		return "above"
	}
	return "below"
}

// StopViolation is a maximal span spent inside a stop zone whose duration
// fell outside [minS, maxS].
type StopViolation struct {
	Kind               StopViolationKind
	DurationS          float64
	StartTime, EndTime time.Time
	CenterPoint        geo.Point
}

// AnalyzeStop implements spec §4.7 for a single zone: it tracks the maximal
// contiguous span of samples inside the zone and emits a violation when that
// span closes (or when the stream ends while still inside) outside
// [minS, maxS].
func AnalyzeStop(stream trace.Stream, zone trace.StopZone, minS, maxS float64) []StopViolation {
	fence := geo.NewBBox(zone.A, zone.B)
	center := fence.Center()

	var violations []StopViolation
	startIndex := -1

	closeSpan := func(endIndex int) {
		duration := stream[endIndex].Time.Sub(stream[startIndex].Time).Seconds()
		if duration < minS {
			violations = append(violations, StopViolation{
				Kind: Below, DurationS: duration,
				StartTime: stream[startIndex].Time, EndTime: stream[endIndex].Time,
				CenterPoint: center,
			})
		} else if duration > maxS {
			violations = append(violations, StopViolation{
				Kind: Above, DurationS: duration,
				StartTime: stream[startIndex].Time, EndTime: stream[endIndex].Time,
				CenterPoint: center,
			})
		}
		startIndex = -1
	}

	for i, s := range stream {
		if fence.Contains(s.Point()) {
			if startIndex == -1 {
				startIndex = i
			}
			continue
		}
		if startIndex != -1 {
			closeSpan(i - 1)
		}
	}
	if startIndex != -1 {
		closeSpan(len(stream) - 1)
	}

	return violations
}

// AnalyzeStops runs AnalyzeStop over every zone and concatenates the
// resulting violations in zone order.
func AnalyzeStops(stream trace.Stream, zones []trace.StopZone, minS, maxS float64) []StopViolation {
	var all []StopViolation
	for _, zone := range zones {
		all = append(all, AnalyzeStop(stream, zone, minS, maxS)...)
	}
	return all
}
