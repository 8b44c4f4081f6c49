package analytics

import (
	"testing"
	"time"

	"gpstrace.dev/internal/trace"
)

func speedPtr(v float64) *float64 { return &v }

func TestAnalyzeSpeedExplicitScenario(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stream := trace.Stream{
		{Lat: 0, Lon: 0, Time: base, Speed: speedPtr(100)},
		{Lat: 0, Lon: 0.5, Time: base.Add(60 * time.Second), Speed: speedPtr(100)},
		{Lat: 0, Lon: 1.0, Time: base.Add(120 * time.Second), Speed: speedPtr(100)},
		{Lat: 0, Lon: 1.5, Time: base.Add(180 * time.Second), Speed: speedPtr(10)},
	}

	violations := AnalyzeSpeed(stream, Explicit, 80, 60)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	if violations[0].DurationS < 60 {
		t.Errorf("duration_s = %v, want >= 60", violations[0].DurationS)
	}
}

func TestAnalyzeSpeedNoViolationBelowThreshold(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stream := trace.Stream{
		{Lat: 0, Lon: 0, Time: base, Speed: speedPtr(10)},
		{Lat: 0, Lon: 0.01, Time: base.Add(60 * time.Second), Speed: speedPtr(10)},
	}
	if v := AnalyzeSpeed(stream, Explicit, 80, 60); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestAnalyzeSpeedDiscardsOpenEndedRun(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stream := trace.Stream{
		{Lat: 0, Lon: 0, Time: base, Speed: speedPtr(100)},
		{Lat: 0, Lon: 0.5, Time: base.Add(60 * time.Second), Speed: speedPtr(100)},
	}
	if v := AnalyzeSpeed(stream, Explicit, 80, 60); len(v) != 0 {
		t.Errorf("expected open-ended run to be discarded, got %v", v)
	}
}

func TestAnalyzeSpeedTooShortDurationDropped(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stream := trace.Stream{
		{Lat: 0, Lon: 0, Time: base, Speed: speedPtr(100)},
		{Lat: 0, Lon: 0.5, Time: base.Add(10 * time.Second), Speed: speedPtr(100)},
		{Lat: 0, Lon: 1.0, Time: base.Add(20 * time.Second), Speed: speedPtr(10)},
	}
	if v := AnalyzeSpeed(stream, Explicit, 80, 60); len(v) != 0 {
		t.Errorf("expected violation to be dropped for short duration, got %v", v)
	}
}

func TestAnalyzeSpeedLocationModeDiscardsOpenEndedRun(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stream := trace.Stream{
		{Lat: 0, Lon: 0, Time: base, Speed: speedPtr(0)},
		{Lat: 0, Lon: 5, Time: base.Add(60 * time.Second), Speed: speedPtr(0)},
	}
	// Location mode derives ~555km in 60s from the coordinates, which opens
	// a run; the last sample has no following sample to derive a speed
	// from, so the run is still open at end of stream and is discarded.
	if v := AnalyzeSpeed(stream, Location, 80, 1); len(v) != 0 {
		t.Errorf("expected open run discarded at end of stream, got %v", v)
	}
}

func TestAnalyzeSpeedShortStreamNoPanic(t *testing.T) {
	if v := AnalyzeSpeed(trace.Stream{{Lat: 0, Lon: 0}}, Explicit, 80, 60); len(v) != 0 {
		t.Errorf("expected no violations for single-sample stream, got %v", v)
	}
	if v := AnalyzeSpeed(nil, Explicit, 80, 60); len(v) != 0 {
		t.Errorf("expected no violations for empty stream, got %v", v)
	}
}
