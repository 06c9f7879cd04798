package core

// ShapeKind identifies one entry in the shape catalog.
type ShapeKind string

// Shape is an immutable block shape instance: a catalog kind plus the color
// the instance was dealt with. Offsets are relative to the placement origin
// and normalized so the minimum X and Y are zero.
type Shape struct {
	Kind    ShapeKind `json:"kind"`
	Color   Color     `json:"color"`
	Offsets []Coord   `json:"offsets"`
}

// Size returns the number of cells the shape occupies.
func (s Shape) Size() int {
	return len(s.Offsets)
}

// Cells returns the absolute coordinates the shape covers when its origin is
// placed at the given coordinate.
func (s Shape) Cells(origin Coord) []Coord {
	cells := make([]Coord, len(s.Offsets))
	for i, off := range s.Offsets {
		cells[i] = origin.AddCoord(off)
	}
	return cells
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	offsets := make([]Coord, len(s.Offsets))
	copy(offsets, s.Offsets)
	return Shape{Kind: s.Kind, Color: s.Color, Offsets: offsets}
}

// CatalogEntry defines one shape kind available to the tray generator.
// MinLevel gates harder shapes to later levels.
type CatalogEntry struct {
	Kind     ShapeKind
	Name     string
	Offsets  []Coord
	MinLevel int
}

// Catalog defines every shape kind the game can deal. Offsets are listed
// row by row. The tray generator filters by MinLevel.
var Catalog = []CatalogEntry{
	{Kind: "single", Name: "Single", MinLevel: 1,
		Offsets: []Coord{C(0, 0)}},
	{Kind: "domino_h", Name: "Domino (horizontal)", MinLevel: 1,
		Offsets: []Coord{C(0, 0), C(1, 0)}},
	{Kind: "domino_v", Name: "Domino (vertical)", MinLevel: 1,
		Offsets: []Coord{C(0, 0), C(0, 1)}},
	{Kind: "line3_h", Name: "Line of 3 (horizontal)", MinLevel: 1,
		Offsets: []Coord{C(0, 0), C(1, 0), C(2, 0)}},
	{Kind: "line3_v", Name: "Line of 3 (vertical)", MinLevel: 1,
		Offsets: []Coord{C(0, 0), C(0, 1), C(0, 2)}},
	{Kind: "corner_tl", Name: "Corner (top-left)", MinLevel: 2,
		Offsets: []Coord{C(0, 0), C(1, 0), C(0, 1)}},
	{Kind: "corner_br", Name: "Corner (bottom-right)", MinLevel: 2,
		Offsets: []Coord{C(1, 0), C(1, 1), C(0, 1)}},
	{Kind: "square2", Name: "Square 2x2", MinLevel: 2,
		Offsets: []Coord{C(0, 0), C(1, 0), C(0, 1), C(1, 1)}},
	{Kind: "line4_h", Name: "Line of 4 (horizontal)", MinLevel: 3,
		Offsets: []Coord{C(0, 0), C(1, 0), C(2, 0), C(3, 0)}},
	{Kind: "line4_v", Name: "Line of 4 (vertical)", MinLevel: 3,
		Offsets: []Coord{C(0, 0), C(0, 1), C(0, 2), C(0, 3)}},
	{Kind: "tee", Name: "T-shape", MinLevel: 4,
		Offsets: []Coord{C(0, 0), C(1, 0), C(2, 0), C(1, 1)}},
	{Kind: "ell", Name: "L-shape", MinLevel: 4,
		Offsets: []Coord{C(0, 0), C(0, 1), C(0, 2), C(1, 2)}},
	{Kind: "line5_h", Name: "Line of 5 (horizontal)", MinLevel: 5,
		Offsets: []Coord{C(0, 0), C(1, 0), C(2, 0), C(3, 0), C(4, 0)}},
	{Kind: "line5_v", Name: "Line of 5 (vertical)", MinLevel: 5,
		Offsets: []Coord{C(0, 0), C(0, 1), C(0, 2), C(0, 3), C(0, 4)}},
}

// CatalogForLevel returns the catalog entries available at the given level.
func CatalogForLevel(level int) []CatalogEntry {
	var entries []CatalogEntry
	for _, e := range Catalog {
		if e.MinLevel <= level {
			entries = append(entries, e)
		}
	}
	return entries
}

// CatalogEntryByKind returns the catalog entry for a kind, or nil if unknown.
func CatalogEntryByKind(kind ShapeKind) *CatalogEntry {
	for i := range Catalog {
		if Catalog[i].Kind == kind {
			return &Catalog[i]
		}
	}
	return nil
}

// NewShape instantiates a shape of the given kind with the given color.
// Returns the zero Shape and false if the kind is unknown.
func NewShape(kind ShapeKind, color Color) (Shape, bool) {
	entry := CatalogEntryByKind(kind)
	if entry == nil {
		return Shape{}, false
	}
	offsets := make([]Coord, len(entry.Offsets))
	copy(offsets, entry.Offsets)
	return Shape{Kind: kind, Color: color, Offsets: offsets}, true
}
