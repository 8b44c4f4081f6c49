// Package trace provides the GPS sample stream: parsing from GPX/CSV,
// deduplication, and the legacy stop-zone CSV ingest path.
package trace

import (
	"sort"
	"time"

	"gpstrace.dev/internal/geo"
)

// Sample is a single timestamped GPS reading.
type Sample struct {
	Lat, Lon  float64
	Elevation *float64
	Time      time.Time
	Speed     *float64 // km/h, present only for "Explicit" speed mode traces
}

// Point returns the sample's coordinate.
func (s Sample) Point() geo.Point {
	return geo.Point{Lat: s.Lat, Lon: s.Lon}
}

// Stream is an ordered sequence of GPS samples. A valid Stream is
// monotonically non-decreasing in Time and carries no two samples with an
// identical Time (see Dedup).
type Stream []Sample

// Dedup collapses samples that share an identical Time, keeping the last
// occurrence, and returns the result sorted by Time ascending. This mirrors
// the original parser's `{point['time']: point for point in points}` stable
// last-wins behavior.
func Dedup(samples []Sample) Stream {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})

	byTime := make(map[int64]int, len(samples))
	order := make([]int64, 0, len(samples))
	for i, s := range samples {
		key := s.Time.UnixNano()
		if _, ok := byTime[key]; !ok {
			order = append(order, key)
		}
		byTime[key] = i // last occurrence at this timestamp wins
	}

	out := make(Stream, 0, len(order))
	for _, key := range order {
		out = append(out, samples[byTime[key]])
	}
	return out
}

// Validate reports an OutOfRangeError for the first sample whose
// coordinates fall outside [-90,90] latitude or [-180,180] longitude.
func (s Stream) Validate() error {
	for i, sample := range s {
		if sample.Lat < -90 || sample.Lat > 90 {
			return &OutOfRangeError{SampleIndex: i, Field: "lat", Value: sample.Lat}
		}
		if sample.Lon < -180 || sample.Lon > 180 {
			return &OutOfRangeError{SampleIndex: i, Field: "lon", Value: sample.Lon}
		}
	}
	return nil
}
