package engine

import "github.com/vovakirdan/blocksmash/internal/core"

// Verdict is the result of validating a placement request.
// Legal verdicts carry no reason; illegal verdicts carry the first failing
// rule so the UI can color the preview accordingly.
type Verdict struct {
	Legal  bool
	Reason PlacementReason
}

// legal is the verdict for an accepted placement.
var legal = Verdict{Legal: true}

// Validate decides whether a shape may be placed with its origin at the
// given coordinate. Pure function of its inputs; no side effects.
//
// Rules, in order:
//  1. every shape cell lies within grid bounds
//  2. no target cell is already occupied
//  3. at least one shape cell is orthogonally adjacent to an occupied cell
//     of the same color, unless the grid is empty
func Validate(grid *core.Grid, shape core.Shape, origin core.Coord) Verdict {
	cells := shape.Cells(origin)

	for _, c := range cells {
		if !grid.InBounds(c) {
			return Verdict{Reason: ReasonOutOfBounds}
		}
	}

	for _, c := range cells {
		if grid.Get(c).Filled {
			return Verdict{Reason: ReasonOverlap}
		}
	}

	// First placement on an empty grid has no adjacency requirement.
	if grid.IsEmpty() {
		return legal
	}

	for _, c := range cells {
		if grid.SameColorNeighbors(c, shape.Color) > 0 {
			return legal
		}
	}
	return Verdict{Reason: ReasonNoColorContact}
}

// HasLegalPlacement returns true if the shape fits anywhere on the grid.
func HasLegalPlacement(grid *core.Grid, shape core.Shape) bool {
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			if Validate(grid, shape, core.C(x, y)).Legal {
				return true
			}
		}
	}
	return false
}

// FindLegalPlacement returns the first legal origin for the shape, scanning
// rows top to bottom. The boolean reports whether one was found.
func FindLegalPlacement(grid *core.Grid, shape core.Shape) (core.Coord, bool) {
	for y := 0; y < grid.H; y++ {
		for x := 0; x < grid.W; x++ {
			origin := core.C(x, y)
			if Validate(grid, shape, origin).Legal {
				return origin, true
			}
		}
	}
	return core.Coord{}, false
}
