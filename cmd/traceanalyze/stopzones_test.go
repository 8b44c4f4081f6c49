package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunStopZonesConvertProducesWaypointFile(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "zones.csv")
	outPath := filepath.Join(dir, "zones.gpx")

	csv := "id,lat1,long1,lat2,long2\n1,45.0,9.0,45.1,9.1\n2,46.0,10.0,46.1,10.1\n"
	if err := os.WriteFile(inPath, []byte(csv), 0o644); err != nil {
		t.Fatalf("writing fixture CSV: %v", err)
	}

	if err := runStopZonesConvert(inPath, outPath); err != nil {
		t.Fatalf("runStopZonesConvert failed: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Count(string(out), "<wpt") != 4 {
		t.Errorf("expected 4 waypoints, got %d in:\n%s", strings.Count(string(out), "<wpt"), out)
	}
}

func TestRunStopZonesConvertFailsOnMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := runStopZonesConvert(filepath.Join(dir, "missing.csv"), filepath.Join(dir, "out.gpx"))
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
