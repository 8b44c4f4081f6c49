package pathenc

import (
	"testing"
	"time"

	"gpstrace.dev/internal/grid"
	"gpstrace.dev/internal/trace"
)

func stream(points [][2]float64) trace.Stream {
	out := make(trace.Stream, len(points))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range points {
		out[i] = trace.Sample{Lat: p[0], Lon: p[1], Time: base.Add(time.Duration(i) * time.Minute)}
	}
	return out
}

func TestEncodeNoConsecutiveDuplicates(t *testing.T) {
	s := stream([][2]float64{
		{-1.00, 36.80}, {-1.001, 36.801}, // same cell
		{-1.20, 36.90}, // different cell
		{-1.201, 36.901},
		{-1.00, 36.80}, // back to first cell
	})
	g, err := grid.Build(s, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	path := Encode(s, g)
	for i := 1; i < len(path); i++ {
		if path[i] == path[i-1] {
			t.Fatalf("found consecutive duplicate at %d: %v", i, path)
		}
	}
	if len(path) == 0 {
		t.Fatal("expected non-empty path")
	}
}

func TestEncodeSkipsOutOfGridSamples(t *testing.T) {
	s := stream([][2]float64{{0, 0}, {0.01, 0.01}})
	g, err := grid.Build(s, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// A route stream built from a far-away bbox may legitimately fall
	// outside a vehicle-derived grid; those samples are skipped rather than
	// erroring.
	far := stream([][2]float64{{50, 50}})
	path := Encode(far, g)
	if len(path) != 0 {
		t.Errorf("expected empty path for out-of-grid samples, got %v", path)
	}
}

func TestEncodeEmptyStream(t *testing.T) {
	s := stream([][2]float64{{0, 0}})
	g, err := grid.Build(s, 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if path := Encode(nil, g); len(path) != 0 {
		t.Errorf("expected empty path for empty stream, got %v", path)
	}
}
