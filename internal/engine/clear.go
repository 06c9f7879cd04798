package engine

import "github.com/vovakirdan/blocksmash/internal/core"

// StructureKind identifies the type of a cleared structure.
type StructureKind string

const (
	StructureRow          StructureKind = "row"
	StructureColumn       StructureKind = "column"
	StructureDiagonalDown StructureKind = "diagonal_down" // "\" top-left to bottom-right
	StructureDiagonalUp   StructureKind = "diagonal_up"   // "/" bottom-left to top-right
	StructureX            StructureKind = "x_pattern"     // Union of both diagonals
)

// Structure is one fully-occupied row, column or special pattern found by
// the detector.
type Structure struct {
	Kind       StructureKind
	Index      int // Row or column index; 0 for patterns
	Cells      []core.Coord
	Monochrome bool       // All cells share one color
	Color      core.Color // Valid only when Monochrome
}

// ClearResult is the full set of structures completed after a placement.
// A cell may belong to several structures; all of them are credited in the
// same resolution pass and every cell is removed exactly once.
type ClearResult struct {
	Structures []Structure
}

// Empty returns true if nothing cleared.
func (r ClearResult) Empty() bool {
	return len(r.Structures) == 0
}

// Lines returns the number of cleared rows and columns, excluding patterns.
func (r ClearResult) Lines() int {
	n := 0
	for _, s := range r.Structures {
		if s.Kind == StructureRow || s.Kind == StructureColumn {
			n++
		}
	}
	return n
}

// Cells returns the deduplicated union of all cleared cells.
func (r ClearResult) Cells() []core.Coord {
	seen := make(map[core.Coord]bool)
	var cells []core.Coord
	for _, s := range r.Structures {
		for _, c := range s.Cells {
			if !seen[c] {
				seen[c] = true
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// Detect scans the grid for completed structures. Pure function: it performs
// no scoring and no mutation; cell removal is a separate step driven by the
// result.
func Detect(grid *core.Grid) ClearResult {
	var result ClearResult

	for y := 0; y < grid.H; y++ {
		if grid.RowFull(y) {
			cells := make([]core.Coord, grid.W)
			for x := 0; x < grid.W; x++ {
				cells[x] = core.C(x, y)
			}
			result.Structures = append(result.Structures, newStructure(grid, StructureRow, y, cells))
		}
	}

	for x := 0; x < grid.W; x++ {
		if grid.ColumnFull(x) {
			cells := make([]core.Coord, grid.H)
			for y := 0; y < grid.H; y++ {
				cells[y] = core.C(x, y)
			}
			result.Structures = append(result.Structures, newStructure(grid, StructureColumn, x, cells))
		}
	}

	// Special patterns are only defined on square boards.
	if grid.W == grid.H {
		down := diagonalDownCells(grid)
		up := diagonalUpCells(grid)
		downFull := allFilled(grid, down)
		upFull := allFilled(grid, up)

		if downFull {
			result.Structures = append(result.Structures, newStructure(grid, StructureDiagonalDown, 0, down))
		}
		if upFull {
			result.Structures = append(result.Structures, newStructure(grid, StructureDiagonalUp, 0, up))
		}
		// The X pattern is the union of both diagonals and fires alongside
		// them: overlapping structures are all credited in one pass.
		if downFull && upFull {
			xCells := unionCells(down, up)
			result.Structures = append(result.Structures, newStructure(grid, StructureX, 0, xCells))
		}
	}

	return result
}

// Resolve removes every cleared cell from the grid, each exactly once.
func Resolve(grid *core.Grid, result ClearResult) {
	for _, c := range result.Cells() {
		grid.SetEmpty(c)
	}
}

func newStructure(grid *core.Grid, kind StructureKind, index int, cells []core.Coord) Structure {
	s := Structure{Kind: kind, Index: index, Cells: cells}
	s.Monochrome, s.Color = monochrome(grid, cells)
	return s
}

// monochrome reports whether every cell in the set is filled with one color.
func monochrome(grid *core.Grid, cells []core.Coord) (bool, core.Color) {
	if len(cells) == 0 {
		return false, 0
	}
	first := grid.Get(cells[0])
	if !first.Filled {
		return false, 0
	}
	for _, c := range cells[1:] {
		cell := grid.Get(c)
		if !cell.Filled || cell.Color != first.Color {
			return false, 0
		}
	}
	return true, first.Color
}

func allFilled(grid *core.Grid, cells []core.Coord) bool {
	for _, c := range cells {
		if !grid.Get(c).Filled {
			return false
		}
	}
	return len(cells) > 0
}

func diagonalDownCells(grid *core.Grid) []core.Coord {
	cells := make([]core.Coord, grid.W)
	for i := 0; i < grid.W; i++ {
		cells[i] = core.C(i, i)
	}
	return cells
}

func diagonalUpCells(grid *core.Grid) []core.Coord {
	cells := make([]core.Coord, grid.W)
	for i := 0; i < grid.W; i++ {
		cells[i] = core.C(i, grid.H-1-i)
	}
	return cells
}

func unionCells(a, b []core.Coord) []core.Coord {
	seen := make(map[core.Coord]bool)
	var cells []core.Coord
	for _, c := range a {
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells
}
