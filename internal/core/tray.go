package core

import "math/rand"

// DefaultTraySize is the number of shape slots offered at a time.
const DefaultTraySize = 3

// Tray holds the small ordered set of shapes currently available for
// placement. Slots empty as shapes are taken; the session refills the tray
// once every slot has been consumed.
type Tray struct {
	Slots []*Shape `json:"slots"` // nil means the slot has been consumed
}

// NewTray creates an empty tray with the given number of slots.
func NewTray(size int) *Tray {
	if size < 1 {
		size = DefaultTraySize
	}
	return &Tray{Slots: make([]*Shape, size)}
}

// Size returns the number of slots in the tray.
func (t *Tray) Size() int {
	return len(t.Slots)
}

// Get returns the shape in the given slot, or nil if the slot is empty or
// out of range.
func (t *Tray) Get(slot int) *Shape {
	if slot < 0 || slot >= len(t.Slots) {
		return nil
	}
	return t.Slots[slot]
}

// Take removes and returns the shape in the given slot.
// Returns nil if the slot is empty or out of range.
func (t *Tray) Take(slot int) *Shape {
	if slot < 0 || slot >= len(t.Slots) {
		return nil
	}
	s := t.Slots[slot]
	t.Slots[slot] = nil
	return s
}

// IsEmpty returns true if every slot has been consumed.
func (t *Tray) IsEmpty() bool {
	for _, s := range t.Slots {
		if s != nil {
			return false
		}
	}
	return true
}

// Remaining returns the shapes still available, in slot order.
func (t *Tray) Remaining() []Shape {
	var shapes []Shape
	for _, s := range t.Slots {
		if s != nil {
			shapes = append(shapes, *s)
		}
	}
	return shapes
}

// Refill deals a fresh shape into every slot, drawing kinds and colors from
// the catalog entries available at the given level. Deterministic for a
// given rng state.
func (t *Tray) Refill(rng *rand.Rand, level int) {
	entries := CatalogForLevel(level)
	if len(entries) == 0 {
		entries = CatalogForLevel(1)
	}
	colors := AllColors()
	for i := range t.Slots {
		entry := entries[rng.Intn(len(entries))]
		color := colors[rng.Intn(len(colors))]
		shape, _ := NewShape(entry.Kind, color)
		t.Slots[i] = &shape
	}
}

// Clone returns a deep copy of the tray.
func (t *Tray) Clone() *Tray {
	slots := make([]*Shape, len(t.Slots))
	for i, s := range t.Slots {
		if s != nil {
			clone := s.Clone()
			slots[i] = &clone
		}
	}
	return &Tray{Slots: slots}
}

// Equal returns true if two trays hold the same shapes in the same slots.
func (t *Tray) Equal(other *Tray) bool {
	if len(t.Slots) != len(other.Slots) {
		return false
	}
	for i, s := range t.Slots {
		o := other.Slots[i]
		if (s == nil) != (o == nil) {
			return false
		}
		if s == nil {
			continue
		}
		if s.Kind != o.Kind || s.Color != o.Color {
			return false
		}
	}
	return true
}
