// Package grid builds the fixed-step geographic tessellation that the path
// encoder and loop counter operate over.
package grid

import (
	"fmt"
	"math"

	"gpstrace.dev/internal/geo"
	"gpstrace.dev/internal/trace"
)

// Cell is one tile of the grid, identified by its linear index
// row*Width+col. Containment is left-inclusive/right-exclusive on
// longitude and top-inclusive/bottom-exclusive on latitude.
type Cell struct {
	Row, Col int
	Bounds   geo.BBox
}

// Contains reports whether p falls within the cell's half-open bounds.
func (c Cell) Contains(p geo.Point) bool {
	return p.Lat <= c.Bounds.NW.Lat && p.Lat > c.Bounds.SE.Lat &&
		p.Lon >= c.Bounds.NW.Lon && p.Lon < c.Bounds.SE.Lon
}

// Grid is a 2-D tessellation of BBox into square cells of side
// CellSizeKm*geo.DegreesPerKm degrees, exposed as a linear-index view for
// the path encoder and loop counter.
type Grid struct {
	Width, Height int
	Bounds        geo.BBox
	SideDeg       float64
	Cells         []Cell // row-major, len == Width*Height
}

// DegenerateGridError is returned by Build when the resulting grid would
// have zero width or height.
type DegenerateGridError struct {
	Width, Height int
}

func (e *DegenerateGridError) Error() string {
	return fmt.Sprintf("degenerate grid: width=%d height=%d", e.Width, e.Height)
}

// Build constructs a Grid covering the bounding box of samples, expanded by
// a buffer of cellSizeKm*geo.DegreesPerKm degrees on every side (spec §4.3).
// Cells are generated row-major from the NW corner southward and eastward in
// steps of cellSizeKm*geo.DegreesPerKm degrees.
func Build(samples trace.Stream, cellSizeKm float64) (*Grid, error) {
	if len(samples) == 0 {
		return nil, &DegenerateGridError{}
	}

	maxLat, minLat := samples[0].Lat, samples[0].Lat
	maxLon, minLon := samples[0].Lon, samples[0].Lon
	for _, s := range samples {
		if s.Lat > maxLat {
			maxLat = s.Lat
		}
		if s.Lat < minLat {
			minLat = s.Lat
		}
		if s.Lon > maxLon {
			maxLon = s.Lon
		}
		if s.Lon < minLon {
			minLon = s.Lon
		}
	}

	buffer := cellSizeKm * geo.DegreesPerKm
	nw := geo.Point{Lat: maxLat + buffer, Lon: minLon - buffer}
	se := geo.Point{Lat: minLat - buffer, Lon: maxLon + buffer}
	side := cellSizeKm * geo.DegreesPerKm

	// Width must equal ceil((se.lon-nw.lon)/s) exactly (spec §4.3 step 4).
	width := int(math.Ceil((se.Lon - nw.Lon) / side))

	var cells []Cell
	height := 0
	for lat := nw.Lat; lat > se.Lat; lat -= side {
		for c := 0; c < width; c++ {
			cells = append(cells, Cell{
				Row: height, Col: c,
				Bounds: geo.BBox{
					NW: geo.Point{Lat: lat, Lon: nw.Lon + float64(c)*side},
					SE: geo.Point{Lat: lat - side, Lon: nw.Lon + float64(c+1)*side},
				},
			})
		}
		height++
	}

	if width <= 0 || height <= 0 {
		return nil, &DegenerateGridError{Width: width, Height: height}
	}

	return &Grid{
		Width:   width,
		Height:  height,
		Bounds:  geo.BBox{NW: nw, SE: se},
		SideDeg: side,
		Cells:   cells,
	}, nil
}

// Length returns the total number of cells (Width*Height).
func (g *Grid) Length() int {
	return g.Width * g.Height
}

// IndexAt returns the linear index of the cell containing p, row-major
// scanning from the first cell ("first matching cell wins" on shared
// edges), or -1 if p falls outside every cell.
func (g *Grid) IndexAt(p geo.Point) int {
	for i, cell := range g.Cells {
		if cell.Contains(p) {
			return i
		}
	}
	return -1
}

// Neighbors returns the 8-connected neighborhood of linear index d: 3
// neighbors at a corner, 5 along an edge, 8 in the interior.
func (g *Grid) Neighbors(d int) []int {
	w := g.Width
	l := g.Length()

	switch {
	case d == 0: // top left
		return []int{d + 1, d + w, d + w + 1}
	case d == w-1: // top right
		return []int{d - 1, d + w - 1, d + w}
	case d == l-w: // bottom left
		return []int{d - w, d - w + 1, d + 1}
	case d == l-1: // bottom right
		return []int{d - w - 1, d - w, d - 1}
	case d < w: // north edge
		return []int{d - 1, d + 1, d + w - 1, d + w, d + w + 1}
	case d >= l-w: // south edge
		return []int{d - w - 1, d - w, d - w + 1, d - 1, d + 1}
	case d%w == 0: // west edge
		return []int{d - w, d - w + 1, d + 1, d + w, d + w + 1}
	case d%w == w-1: // east edge
		return []int{d - w - 1, d - w, d - 1, d + w - 1, d + w}
	default: // interior
		return []int{d - w - 1, d - w, d - w + 1, d - 1, d + 1, d + w - 1, d + w, d + w + 1}
	}
}
