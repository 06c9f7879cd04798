// Package core provides the pure data model for the block puzzle engine.
// It is UI-agnostic, deterministic, and has no external dependencies so the
// game logic stays testable in isolation.
package core

// DefaultGridSize is the board dimension used by the standard game.
const DefaultGridSize = 10

// Cell represents a single cell in the grid.
type Cell struct {
	Filled bool  `json:"filled"`
	Color  Color `json:"color"` // Valid only when Filled is true
}

// Empty returns an empty cell.
func Empty() Cell {
	return Cell{Filled: false}
}

// FilledCell returns a filled cell with the given color.
func FilledCell(c Color) Cell {
	return Cell{Filled: true, Color: c}
}

// Grid represents the game board as a rectangular grid of cells.
// Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	W     int    `json:"w"`
	H     int    `json:"h"`
	Cells []Cell `json:"cells"` // Flat array, length W*H
}

// NewGrid creates a new grid with the given dimensions, all cells empty.
func NewGrid(w, h int) *Grid {
	return &Grid{
		W:     w,
		H:     h,
		Cells: make([]Cell, w*h),
	}
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Get returns the cell at the given coordinate.
// Returns an empty cell if out of bounds.
func (g *Grid) Get(c Coord) Cell {
	if !g.InBounds(c) {
		return Empty()
	}
	return g.Cells[g.index(c)]
}

// Set sets the cell at the given coordinate.
func (g *Grid) Set(c Coord, cell Cell) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = cell
	}
}

// SetEmpty clears the cell at the given coordinate.
func (g *Grid) SetEmpty(c Coord) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = Empty()
	}
}

// Fill fills the cell at the given coordinate with the specified color.
func (g *Grid) Fill(c Coord, color Color) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = FilledCell(color)
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{
		W:     g.W,
		H:     g.H,
		Cells: cells,
	}
}

// FilledCount returns the number of filled cells in the grid.
func (g *Grid) FilledCount() int {
	count := 0
	for _, cell := range g.Cells {
		if cell.Filled {
			count++
		}
	}
	return count
}

// IsEmpty returns true if all cells are empty.
func (g *Grid) IsEmpty() bool {
	return g.FilledCount() == 0
}

// RowFull returns true if every cell in row y is filled.
func (g *Grid) RowFull(y int) bool {
	for x := 0; x < g.W; x++ {
		if !g.Get(C(x, y)).Filled {
			return false
		}
	}
	return true
}

// ColumnFull returns true if every cell in column x is filled.
func (g *Grid) ColumnFull(x int) bool {
	for y := 0; y < g.H; y++ {
		if !g.Get(C(x, y)).Filled {
			return false
		}
	}
	return true
}

// RowEmpty returns true if every cell in row y is empty.
func (g *Grid) RowEmpty(y int) bool {
	for x := 0; x < g.W; x++ {
		if g.Get(C(x, y)).Filled {
			return false
		}
	}
	return true
}

// SameColorNeighbors returns how many of the four orthogonal neighbors of c
// are filled with the given color.
func (g *Grid) SameColorNeighbors(c Coord, color Color) int {
	count := 0
	for _, n := range c.Neighbors() {
		if !g.InBounds(n) {
			continue
		}
		cell := g.Get(n)
		if cell.Filled && cell.Color == color {
			count++
		}
	}
	return count
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H {
		return false
	}
	for i, cell := range g.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}
	return true
}
