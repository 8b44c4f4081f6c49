// Package pathenc maps a sample stream to its compressed cell path over a
// grid (spec §4.4).
package pathenc

import (
	"gpstrace.dev/internal/grid"
	"gpstrace.dev/internal/trace"
)

// Encode walks samples in order and emits the cell index containing each
// one, eliding consecutive duplicates. Samples falling outside g are
// silently skipped. The returned path never contains two adjacent equal
// indices, though the indices themselves need not be geographically
// adjacent (samples may skip cells).
func Encode(samples trace.Stream, g *grid.Grid) []int {
	var path []int
	current := -1

	for _, s := range samples {
		idx := g.IndexAt(s.Point())
		if idx == -1 {
			continue
		}
		if idx != current {
			current = idx
			path = append(path, idx)
		}
	}

	return path
}
