package core

import (
	"math/rand"
	"testing"
)

func TestCatalogOffsetsNormalized(t *testing.T) {
	for _, entry := range Catalog {
		t.Run(string(entry.Kind), func(t *testing.T) {
			if len(entry.Offsets) == 0 {
				t.Fatal("catalog entry has no offsets")
			}
			minX, minY := entry.Offsets[0].X, entry.Offsets[0].Y
			seen := make(map[Coord]bool)
			for _, off := range entry.Offsets {
				if seen[off] {
					t.Errorf("duplicate offset %v", off)
				}
				seen[off] = true
				if off.X < minX {
					minX = off.X
				}
				if off.Y < minY {
					minY = off.Y
				}
			}
			if minX != 0 || minY != 0 {
				t.Errorf("offsets not normalized: min (%d,%d), expected (0,0)", minX, minY)
			}
			if entry.MinLevel < 1 {
				t.Errorf("MinLevel = %d, expected >= 1", entry.MinLevel)
			}
		})
	}
}

func TestCatalogForLevel(t *testing.T) {
	level1 := CatalogForLevel(1)
	if len(level1) == 0 {
		t.Fatal("level 1 must offer shapes")
	}
	for _, e := range level1 {
		if e.MinLevel > 1 {
			t.Errorf("level 1 catalog includes %s with MinLevel %d", e.Kind, e.MinLevel)
		}
	}

	// Higher levels never shrink the pool.
	prev := 0
	for level := 1; level <= 6; level++ {
		n := len(CatalogForLevel(level))
		if n < prev {
			t.Errorf("catalog shrank from %d to %d at level %d", prev, n, level)
		}
		prev = n
	}
}

func TestNewShape(t *testing.T) {
	s, ok := NewShape("square2", ColorYellow)
	if !ok {
		t.Fatal("square2 should exist")
	}
	if s.Size() != 4 {
		t.Errorf("square2 size = %d, expected 4", s.Size())
	}
	if s.Color != ColorYellow {
		t.Errorf("color = %v, expected yellow", s.Color)
	}

	cells := s.Cells(C(3, 3))
	expected := map[Coord]bool{C(3, 3): true, C(4, 3): true, C(3, 4): true, C(4, 4): true}
	for _, c := range cells {
		if !expected[c] {
			t.Errorf("unexpected cell %v", c)
		}
	}

	if _, ok := NewShape("nonsense", ColorRed); ok {
		t.Error("unknown kind should not resolve")
	}
}

func TestTrayRefillDeterministic(t *testing.T) {
	t1 := NewTray(3)
	t2 := NewTray(3)
	t1.Refill(rand.New(rand.NewSource(99)), 1)
	t2.Refill(rand.New(rand.NewSource(99)), 1)

	if !t1.Equal(t2) {
		t.Error("same seed should deal identical trays")
	}

	t3 := NewTray(3)
	t3.Refill(rand.New(rand.NewSource(100)), 1)
	// Different seeds will usually differ; only assert the tray is full.
	for i := 0; i < t3.Size(); i++ {
		if t3.Get(i) == nil {
			t.Errorf("slot %d empty after refill", i)
		}
	}
}

func TestTrayRefillHonorsLevelGate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tray := NewTray(3)
	for trial := 0; trial < 50; trial++ {
		tray.Refill(rng, 1)
		for i := 0; i < tray.Size(); i++ {
			shape := tray.Get(i)
			entry := CatalogEntryByKind(shape.Kind)
			if entry == nil {
				t.Fatalf("dealt unknown kind %s", shape.Kind)
			}
			if entry.MinLevel > 1 {
				t.Errorf("level 1 deal included %s (MinLevel %d)", shape.Kind, entry.MinLevel)
			}
		}
	}
}

func TestTrayTakeAndEmpty(t *testing.T) {
	tray := NewTray(3)
	tray.Refill(rand.New(rand.NewSource(1)), 1)

	if tray.IsEmpty() {
		t.Fatal("freshly refilled tray should not be empty")
	}

	for i := 0; i < 3; i++ {
		if s := tray.Take(i); s == nil {
			t.Fatalf("Take(%d) returned nil", i)
		}
	}
	if !tray.IsEmpty() {
		t.Error("tray should be empty after taking every slot")
	}
	if s := tray.Take(0); s != nil {
		t.Error("taking an empty slot should return nil")
	}
	if s := tray.Take(17); s != nil {
		t.Error("taking an out-of-range slot should return nil")
	}
}

func TestTrayCloneIsDeep(t *testing.T) {
	tray := NewTray(3)
	tray.Refill(rand.New(rand.NewSource(5)), 1)

	clone := tray.Clone()
	if !tray.Equal(clone) {
		t.Fatal("clone should equal original")
	}

	clone.Take(1)
	if tray.Get(1) == nil {
		t.Error("taking from the clone leaked into the original")
	}
}
