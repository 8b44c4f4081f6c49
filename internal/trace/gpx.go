package trace

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"gpstrace.dev/internal/geo"
)

// gpx XML structures for parsing. Mirrors the teacher's gpx.gpxFile/
// gpxTrack/gpxSegment/gpxPoint shape, extended with waypoints and speed.
type gpxFile struct {
	XMLName   xml.Name   `xml:"gpx"`
	Tracks    []gpxTrack `xml:"trk"`
	Waypoints []gpxPoint `xml:"wpt"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat       float64  `xml:"lat,attr"`
	Lon       float64  `xml:"lon,attr"`
	Elevation *float64 `xml:"ele"`
	Time      string   `xml:"time"`
	Speed     *float64 `xml:"speed"`
}

// ParseGPX decodes a GPX document into a deduplicated Stream, flattening
// every track/segment/point in document order. Duplicates sharing an
// identical time collapse to the last observed occurrence (see Dedup).
// ParseGPX fails with a *ParseError on malformed XML or a missing or
// unparseable time. A trkpt without a lat or lon attribute is not rejected:
// the missing coordinate reads as 0.
func ParseGPX(r io.Reader) (Stream, error) {
	var doc gpxFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Location: "gpx", Err: err}
	}

	var samples []Sample
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for i, pt := range seg.Points {
				if pt.Time == "" {
					return nil, &ParseError{Location: fmt.Sprintf("trkpt[%d]", i), Err: fmt.Errorf("missing required attribute time")}
				}
				t, err := time.Parse(time.RFC3339, pt.Time)
				if err != nil {
					return nil, &ParseError{Location: fmt.Sprintf("trkpt[%d].time", i), Err: err}
				}
				samples = append(samples, Sample{
					Lat:       pt.Lat,
					Lon:       pt.Lon,
					Elevation: pt.Elevation,
					Time:      t,
					Speed:     pt.Speed,
				})
			}
		}
	}

	stream := Dedup(samples)
	if err := stream.Validate(); err != nil {
		return nil, err
	}
	return stream, nil
}

// ParseWaypoints decodes only the <wpt> elements of a GPX document into an
// ordered list of points, as used by the stop-zone corner-pair format of
// spec §6.
func ParseWaypoints(r io.Reader) ([]geo.Point, error) {
	var doc gpxFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Location: "gpx", Err: err}
	}

	points := make([]geo.Point, 0, len(doc.Waypoints))
	for _, wpt := range doc.Waypoints {
		points = append(points, geo.Point{Lat: wpt.Lat, Lon: wpt.Lon})
	}
	return points, nil
}

// EncodeGPX renders a Stream back out as a single-track, single-segment GPX
// document. It is the inverse of ParseGPX: round-tripping a time-unique
// Stream through EncodeGPX then ParseGPX yields the same samples.
func EncodeGPX(w io.Writer, stream Stream) error {
	doc := gpxFile{XMLName: xml.Name{Local: "gpx"}}
	if len(stream) > 0 {
		seg := gpxSegment{Points: make([]gpxPoint, 0, len(stream))}
		for _, s := range stream {
			seg.Points = append(seg.Points, gpxPoint{
				Lat:       s.Lat,
				Lon:       s.Lon,
				Elevation: s.Elevation,
				Time:      s.Time.UTC().Format(time.RFC3339),
				Speed:     s.Speed,
			})
		}
		doc.Tracks = []gpxTrack{{Segments: []gpxSegment{seg}}}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

// EncodeWaypoints renders an alternating corner-point sequence as a GPX
// waypoint file, as produced by the legacy stop-zone CSV conversion of
// spec §6.
func EncodeWaypoints(w io.Writer, points []geo.Point) error {
	doc := gpxFile{
		XMLName:   xml.Name{Local: "gpx"},
		Waypoints: make([]gpxPoint, 0, len(points)),
	}
	for _, p := range points {
		doc.Waypoints = append(doc.Waypoints, gpxPoint{Lat: p.Lat, Lon: p.Lon})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}
