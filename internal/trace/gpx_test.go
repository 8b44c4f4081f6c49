package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"gpstrace.dev/internal/geo"
)

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1">
  <trk>
    <trkseg>
      <trkpt lat="-1.2921" lon="36.8219">
        <ele>1795</ele>
        <time>2024-01-15T08:00:00Z</time>
      </trkpt>
      <trkpt lat="-1.2931" lon="36.8229">
        <ele>1800</ele>
        <time>2024-01-15T08:10:00Z</time>
      </trkpt>
      <trkpt lat="-1.2941" lon="36.8239">
        <ele>1805</ele>
        <time>2024-01-15T08:20:00Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParseGPX(t *testing.T) {
	stream, err := ParseGPX(strings.NewReader(testGPX))
	if err != nil {
		t.Fatalf("ParseGPX failed: %v", err)
	}
	if len(stream) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(stream))
	}
	if stream[0].Lat != -1.2921 || stream[0].Lon != 36.8219 {
		t.Errorf("unexpected first sample: %+v", stream[0])
	}
	if stream[0].Elevation == nil || *stream[0].Elevation != 1795 {
		t.Errorf("expected elevation 1795, got %v", stream[0].Elevation)
	}
}

func TestParseGPXInvalidXML(t *testing.T) {
	_, err := ParseGPX(strings.NewReader("not valid xml"))
	if err == nil {
		t.Fatal("expected error for invalid XML")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("expected *ParseError, got %T", err)
	}
}

func TestParseGPXMissingTime(t *testing.T) {
	doc := `<gpx><trk><trkseg><trkpt lat="1" lon="2"></trkpt></trkseg></trk></gpx>`
	_, err := ParseGPX(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected error for missing time")
	}
}

func TestParseGPXDeduplicatesByTime(t *testing.T) {
	doc := `<gpx><trk><trkseg>
		<trkpt lat="1" lon="1"><time>2024-01-15T08:00:00Z</time></trkpt>
		<trkpt lat="2" lon="2"><time>2024-01-15T08:00:00Z</time></trkpt>
	</trkseg></trk></gpx>`
	stream, err := ParseGPX(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseGPX failed: %v", err)
	}
	if len(stream) != 1 {
		t.Fatalf("expected 1 sample after dedup, got %d", len(stream))
	}
	if stream[0].Lat != 2 {
		t.Errorf("expected last-occurrence to win, got lat=%f", stream[0].Lat)
	}
}

func TestParseGPXOutOfRange(t *testing.T) {
	doc := `<gpx><trk><trkseg><trkpt lat="200" lon="2"><time>2024-01-15T08:00:00Z</time></trkpt></trkseg></trk></gpx>`
	_, err := ParseGPX(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestParseWaypoints(t *testing.T) {
	doc := `<gpx><wpt lat="1" lon="2"/><wpt lat="3" lon="4"/></gpx>`
	points, err := ParseWaypoints(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseWaypoints failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(points))
	}
	if points[1].Lat != 3 || points[1].Lon != 4 {
		t.Errorf("unexpected second waypoint: %+v", points[1])
	}
}

func TestGPXRoundTrip(t *testing.T) {
	t1 := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 15, 8, 10, 0, 0, time.UTC)
	ele := 1800.0
	speed := 12.5

	original := Stream{
		{Lat: -1.2921, Lon: 36.8219, Time: t1},
		{Lat: -1.2931, Lon: 36.8229, Elevation: &ele, Time: t2, Speed: &speed},
	}

	var buf bytes.Buffer
	if err := EncodeGPX(&buf, original); err != nil {
		t.Fatalf("EncodeGPX failed: %v", err)
	}

	roundTripped, err := ParseGPX(&buf)
	if err != nil {
		t.Fatalf("ParseGPX of encoded stream failed: %v", err)
	}

	if len(roundTripped) != len(original) {
		t.Fatalf("expected %d samples, got %d", len(original), len(roundTripped))
	}
	for i := range original {
		if !roundTripped[i].Time.Equal(original[i].Time) {
			t.Errorf("sample %d: time mismatch: got %v want %v", i, roundTripped[i].Time, original[i].Time)
		}
		if roundTripped[i].Lat != original[i].Lat || roundTripped[i].Lon != original[i].Lon {
			t.Errorf("sample %d: coordinate mismatch", i)
		}
	}
	if roundTripped[1].Elevation == nil || *roundTripped[1].Elevation != ele {
		t.Errorf("expected elevation to round-trip, got %v", roundTripped[1].Elevation)
	}
	if roundTripped[1].Speed == nil || *roundTripped[1].Speed != speed {
		t.Errorf("expected speed to round-trip, got %v", roundTripped[1].Speed)
	}
}

func TestEncodeWaypointsRoundTrip(t *testing.T) {
	points := []geo.Point{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}}
	var buf bytes.Buffer
	if err := EncodeWaypoints(&buf, points); err != nil {
		t.Fatalf("EncodeWaypoints failed: %v", err)
	}

	parsed, err := ParseWaypoints(&buf)
	if err != nil {
		t.Fatalf("ParseWaypoints failed: %v", err)
	}
	if len(parsed) != 2 || parsed[0].Lat != 1 || parsed[1].Lon != 4 {
		t.Errorf("unexpected round-tripped waypoints: %+v", parsed)
	}
}
