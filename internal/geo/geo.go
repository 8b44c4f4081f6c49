// Package geo provides the coordinate primitives shared by the trace,
// grid, and loop packages: points, axis-aligned bounding boxes, and
// great-circle distance.
package geo

import "math"

// EarthRadiusKm is the Earth radius used by Haversine, matching the
// teacher's gpx.haversineDistance constant.
const EarthRadiusKm = 6371.0

// DegreesPerKm is the design constant used throughout the grid builder and
// bbox buffering: one unit of cell_size_km corresponds to
// DegreesPerKm * cellSizeKm degrees on both axes. The system is
// deliberately equirectangular at working latitudes; no per-latitude
// longitude correction is applied, preserving bit-compatibility with the
// original implementation.
const DegreesPerKm = 0.009

// Point is a latitude/longitude coordinate in degrees.
type Point struct {
	Lat, Lon float64
}

// BBox is an axis-aligned bounding box with NW.Lat >= SE.Lat and
// NW.Lon <= SE.Lon.
type BBox struct {
	NW, SE Point
}

// NewBBox normalizes two arbitrary corner points into a BBox regardless of
// which corners were supplied.
func NewBBox(a, b Point) BBox {
	box := BBox{
		NW: Point{Lat: math.Max(a.Lat, b.Lat), Lon: math.Min(a.Lon, b.Lon)},
		SE: Point{Lat: math.Min(a.Lat, b.Lat), Lon: math.Max(a.Lon, b.Lon)},
	}
	return box
}

// Contains reports whether p lies within box: top-inclusive/bottom-exclusive
// on latitude, left-inclusive/right-exclusive on longitude — the same
// half-open rule grid.Cell.Contains uses, both grounded on the original
// source's single Polygon.contains.
func (box BBox) Contains(p Point) bool {
	return p.Lat <= box.NW.Lat && p.Lat > box.SE.Lat &&
		p.Lon >= box.NW.Lon && p.Lon < box.SE.Lon
}

// Center returns the midpoint of the box.
func (box BBox) Center() Point {
	return Point{Lat: (box.NW.Lat + box.SE.Lat) / 2, Lon: (box.NW.Lon + box.SE.Lon) / 2}
}

// Haversine returns the great-circle distance between a and b in
// kilometers.
func Haversine(a, b Point) float64 {
	lat1 := degToRad(a.Lat)
	lat2 := degToRad(b.Lat)
	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
