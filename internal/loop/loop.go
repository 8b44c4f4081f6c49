// Package loop implements the tolerant sequence-matching loop counter: it
// walks a vehicle's compressed cell path against a reference route's
// compressed cell path and counts full completions, resyncing on in-route
// reshuffles and rejecting detours whose cells aren't geographically close
// to the portion of the route they skipped.
package loop

import "gpstrace.dev/internal/grid"

// Result is the outcome of Count.
type Result struct {
	Loops int
}

// Count implements the state machine described by spec §4.9. route and
// traj are compressed cell paths (as produced by pathenc.Encode); g
// supplies the 8-neighborhood adjacency used to judge detours.
func Count(route, traj []int, g *grid.Grid) Result {
	if len(route) == 0 || len(traj) == 0 {
		return Result{}
	}

	errors := 0
	loops := 0
	r := 0

	for i := 0; i < len(traj); i++ {
		cur := traj[i]

		switch {
		case cur == route[r]:
			r++

		default:
			if k := indexOf(cur, route); k != -1 {
				// Local error: the vehicle revisited a route cell out of
				// the expected order.
				switch {
				case k > r:
					r = k + 1
				case k < r:
					if route[k] == route[0] && i > 0 && traj[i-1] == route[1] {
						r = k + 1
					} else {
						// Ambiguous in the source between resyncing and
						// forcing a lap commit; forcing commit is the
						// behavior preserved here (spec.md §9).
						r = len(route)
					}
				}
			} else {
				// Foreign error: consume a run of cells absent from the
				// route and judge it as a detour.
				var detour, missed []int
				var newI int
				newI, r, detour, missed = detourInfo(i, r, route, traj)
				errors += checkNeighbors(detour, missed, g)
				i = newI
			}
		}

		if r == len(route) {
			r = 0
			if errors == 0 {
				loops++
			} else {
				errors = 0
			}
		}
	}

	return Result{Loops: loops}
}

// detourInfo consumes the run of trajectory cells starting at i that are
// absent from route, and computes the list of route cells the vehicle
// skipped while off-route. It returns the index of the first in-route cell
// found after the detour (or len(traj) if the trajectory ends mid-detour),
// the route cursor to resume at, the detour cells, and the missed cells.
func detourInfo(i, r int, route, traj []int) (newI, newR int, detour, missed []int) {
	origI := i
	j := i
	for j < len(traj) && indexOf(traj[j], route) == -1 {
		detour = append(detour, traj[j])
		j++
	}
	newI = j
	atEnd := newI == len(traj)

	switch {
	case origI == 0 && atEnd:
		// The whole trajectory so far is an unmatched detour with no route
		// anchor on either side; not addressed by the source, so nothing is
		// charged as "missed" and the route cursor cannot be resolved.
		newR = len(route)

	case origI == 0:
		k := indexOf(traj[newI], route)
		if k == 0 {
			missed = []int{route[0]}
		} else {
			missed = append(missed, route[:k+1]...)
		}
		newR = k + 1

	case atEnd:
		start := indexOf(traj[origI-1], route)
		missed = append(missed, route[start:]...)
		newR = len(route)

	default:
		a := indexOf(traj[origI-1], route)
		b := indexOf(traj[newI], route) + 1
		if b < a {
			missed = append(missed, route[a:]...)
			missed = append(missed, b)
		} else {
			missed = append(missed, route[a:b]...)
		}
		newR = indexOf(traj[newI], route) + 1
	}

	return newI, newR, detour, missed
}

// checkNeighbors returns 1 if any detour cell has no neighbor among the
// missed route cells, 0 if every detour cell is adjacent to at least one of
// them (spec §4.9's adjacency check).
func checkNeighbors(detour, missed []int, g *grid.Grid) int {
	for _, d := range detour {
		adjacent := false
		for _, m := range missed {
			if containsInt(g.Neighbors(m), d) {
				adjacent = true
				break
			}
		}
		if !adjacent {
			return 1
		}
	}
	return 0
}

func indexOf(cell int, route []int) int {
	for i, c := range route {
		if c == cell {
			return i
		}
	}
	return -1
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
