// Package analytics implements the distance, speed, stop-zone, and
// liveness analyzers (spec §4.5-§4.8). Each analyzer is a pure function
// over an owned, borrowed trace.Stream.
package analytics

import (
	"strconv"

	"gpstrace.dev/internal/geo"
	"gpstrace.dev/internal/trace"
)

// Distance sums the haversine distance between every adjacent pair of
// samples and returns both the raw kilometers and the two-decimal display
// string required by spec §4.5/§6.
func Distance(stream trace.Stream) (km float64, display string) {
	for i := 1; i < len(stream); i++ {
		km += geo.Haversine(stream[i-1].Point(), stream[i].Point())
	}
	return km, strconv.FormatFloat(km, 'f', 2, 64)
}
