package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gpstrace.dev/internal/geo"
)

// StopZone is an axis-aligned rectangle bounded by a pair of corner points
// (spec §3). A zone list is built from an even-length point sequence by
// pairing up consecutive points (ZonesFromPoints).
type StopZone struct {
	A, B geo.Point
}

// ZonesFromPoints pairs up an even-length corner-point sequence (index 2k,
// 2k+1) into stop zones, per spec §3. A trailing unpaired point is dropped.
func ZonesFromPoints(points []geo.Point) []StopZone {
	zones := make([]StopZone, 0, len(points)/2)
	for i := 0; i+1 < len(points); i += 2 {
		zones = append(zones, StopZone{A: points[i], B: points[i+1]})
	}
	return zones
}

// StopZonesFromCSV parses the legacy stop-zone CSV ingest format of spec
// §6: a header row (skipped) followed by rows of
// "id,lat1,long1,lat2,long2", each producing two corner points appended in
// order.
func StopZonesFromCSV(r io.Reader) ([]geo.Point, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, &ParseError{Location: "csv header", Err: fmt.Errorf("empty file")}
		}
		return nil, &ParseError{Location: "csv header", Err: err}
	}

	var points []geo.Point
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d", row), Err: err}
		}
		row++

		if len(record) < 5 {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d", row), Err: fmt.Errorf("expected 5 columns, got %d", len(record))}
		}

		lat1, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d: lat1", row), Err: err}
		}
		lon1, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d: long1", row), Err: err}
		}
		lat2, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d: lat2", row), Err: err}
		}
		lon2, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("csv row %d: long2", row), Err: err}
		}

		points = append(points, geo.Point{Lat: lat1, Lon: lon1}, geo.Point{Lat: lat2, Lon: lon2})
	}

	return points, nil
}
