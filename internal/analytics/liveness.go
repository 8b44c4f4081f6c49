package analytics

import (
	"time"

	"gpstrace.dev/internal/trace"
)

// LivenessSegment is a contiguous run of samples whose consecutive gaps all
// stayed below the configured threshold.
type LivenessSegment struct {
	StartTime, EndTime time.Time
	DurationS          float64
}

// LivenessResult is the output of AnalyzeLiveness: the segmentation of a
// trace into live spans and their combined duration.
type LivenessResult struct {
	TotalS   float64
	Segments []LivenessSegment
}

// AnalyzeLiveness implements spec §4.8. A gap at or above gapS closes the
// current segment at the sample preceding the gap and starts a new one at
// the sample following it. The trailing segment, from the last closed
// boundary through the final sample, is always emitted even if no gap ever
// triggered.
func AnalyzeLiveness(stream trace.Stream, gapS float64) LivenessResult {
	n := len(stream)
	if n == 0 {
		return LivenessResult{}
	}

	var result LivenessResult
	startIndex := 0

	for i := 0; i < n-1; i++ {
		diff := stream[i+1].Time.Sub(stream[i].Time).Seconds()
		if diff < gapS {
			continue
		}
		seg := LivenessSegment{
			StartTime: stream[startIndex].Time,
			EndTime:   stream[i].Time,
			DurationS: stream[i].Time.Sub(stream[startIndex].Time).Seconds(),
		}
		result.Segments = append(result.Segments, seg)
		result.TotalS += seg.DurationS
		startIndex = i + 1
	}

	last := LivenessSegment{
		StartTime: stream[startIndex].Time,
		EndTime:   stream[n-1].Time,
		DurationS: stream[n-1].Time.Sub(stream[startIndex].Time).Seconds(),
	}
	result.Segments = append(result.Segments, last)
	result.TotalS += last.DurationS

	return result
}
