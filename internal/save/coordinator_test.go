package save

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
	"github.com/vovakirdan/blocksmash/internal/engine"
)

// memStore is an in-memory Store for coordinator tests.
type memStore struct {
	mu     sync.Mutex
	slots  map[string][]byte
	ids    map[string]string
	writes int
}

func newMemStore() *memStore {
	return &memStore{slots: map[string][]byte{}, ids: map[string]string{}}
}

func (m *memStore) WriteSave(_ context.Context, slot, sessionID string, _ int, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.slots[slot] = buf
	m.ids[slot] = sessionID
	m.writes++
	return nil
}

func (m *memStore) ReadSave(_ context.Context, slot string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.slots[slot]
	return payload, ok, nil
}

func (m *memStore) SaveSessionID(_ context.Context, slot string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[slot]
	return id, ok, nil
}

func (m *memStore) DeleteSave(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	delete(m.ids, slot)
	return nil
}

func (m *memStore) raw(slot string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slot]
}

func (m *memStore) put(slot, sessionID string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = payload
	m.ids[slot] = sessionID
}

func playedSnapshot(t *testing.T) engine.SessionSnapshot {
	t.Helper()
	s := engine.NewSession(config.DefaultRules(), 3, nil)
	sh, _ := core.NewShape("single", core.ColorBlue)
	s.Tray().Slots[0] = &sh
	if _, err := s.Place(0, core.C(4, 4)); err != nil {
		t.Fatalf("setup placement failed: %v", err)
	}
	s.GrantContinue()
	return s.Snapshot()
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rules := config.DefaultRules()
	store := newMemStore()
	c := NewCoordinator(store, rules, "", nil)
	snap := playedSnapshot(t)
	ctx := context.Background()

	if err := c.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SessionID != snap.SessionID {
		t.Error("session id must round-trip")
	}
	if loaded.Phase != snap.Phase || loaded.Level != snap.Level {
		t.Error("phase and level must round-trip")
	}
	if loaded.Score != snap.Score || loaded.TempScore != snap.TempScore || loaded.Chain != snap.Chain {
		t.Error("scores and chain must round-trip")
	}
	if loaded.BlocksPlaced != snap.BlocksPlaced || loaded.LinesCleared != snap.LinesCleared {
		t.Error("counters must round-trip")
	}
	if loaded.ContinueGrants != 1 {
		t.Errorf("continue grants = %d, expected 1", loaded.ContinueGrants)
	}
	if !loaded.Grid.Equal(snap.Grid) {
		t.Error("grid must round-trip")
	}
	if !loaded.Tray.Equal(snap.Tray) {
		t.Error("tray must round-trip")
	}
	if loaded.UndoFreeCredits != snap.UndoFreeCredits || loaded.UndoAdCredits != snap.UndoAdCredits {
		t.Error("undo credits must round-trip")
	}
}

func TestLoadMissingSave(t *testing.T) {
	c := NewCoordinator(newMemStore(), config.DefaultRules(), "", nil)
	if _, err := c.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load of empty slot returned %v, expected ErrNotFound", err)
	}
}

func TestSaveConflictRequiresConfirmation(t *testing.T) {
	rules := config.DefaultRules()
	c := NewCoordinator(newMemStore(), rules, "", nil)
	ctx := context.Background()

	first := engine.NewSession(rules, 1, nil).Snapshot()
	if err := c.Save(ctx, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Same session overwrites freely.
	if err := c.Save(ctx, first); err != nil {
		t.Errorf("same-session save failed: %v", err)
	}

	other := engine.NewSession(rules, 2, nil).Snapshot()
	if err := c.Save(ctx, other); !errors.Is(err, ErrSaveConflict) {
		t.Fatalf("conflicting save returned %v, expected ErrSaveConflict", err)
	}

	c.ConfirmOverwrite()
	if err := c.Save(ctx, other); err != nil {
		t.Fatalf("confirmed save failed: %v", err)
	}

	loaded, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SessionID != other.SessionID {
		t.Error("confirmed save must replace the old session")
	}

	// Confirmation is single-use.
	third := engine.NewSession(rules, 3, nil).Snapshot()
	if err := c.Save(ctx, third); !errors.Is(err, ErrSaveConflict) {
		t.Errorf("save after spent confirmation returned %v, expected ErrSaveConflict", err)
	}
}

func TestLoadCorruptPayloadFailsClosed(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, config.DefaultRules(), "", nil)
	ctx := context.Background()

	junk := []byte("{not json")
	store.put(DefaultSlot, "x", junk)

	if _, err := c.Load(ctx); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("Load returned %v, expected ErrCorruptSnapshot", err)
	}
	if string(store.raw(DefaultSlot)) != string(junk) {
		t.Error("corrupt payload must be left untouched in storage")
	}
}

func TestLoadUnknownVersionFailsClosed(t *testing.T) {
	store := newMemStore()
	c := NewCoordinator(store, config.DefaultRules(), "", nil)

	payload, _ := json.Marshal(map[string]any{"version": 99})
	store.put(DefaultSlot, "x", payload)

	if _, err := c.Load(context.Background()); !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("Load returned %v, expected ErrCorruptSnapshot", err)
	}
}

func TestLoadMigratesV1(t *testing.T) {
	rules := config.DefaultRules()
	store := newMemStore()
	c := NewCoordinator(store, rules, "", nil)

	var old envelopeV1
	old.Version = 1
	old.Session.SessionID = "legacy"
	old.Session.Paused = true
	old.Session.Score = 1500
	old.Session.TempScore = 200
	old.Session.Level = 2
	old.Session.BlocksPlaced = 12
	old.Session.LinesCleared = 3
	old.Session.HighScore = 2200
	old.Session.Grid = core.NewGrid(rules.Board.Width, rules.Board.Height)
	old.Session.Tray = core.NewTray(rules.Board.TraySize)
	old.Session.UndoCredits = 2
	payload, err := json.Marshal(old)
	if err != nil {
		t.Fatal(err)
	}
	store.put(DefaultSlot, "legacy", payload)

	snap, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Phase != engine.PhasePaused {
		t.Errorf("phase = %s, expected the paused flag to map to the paused phase", snap.Phase)
	}
	if snap.Score != 1500 || snap.Level != 2 || snap.UndoFreeCredits != 2 {
		t.Errorf("migrated fields wrong: %+v", snap)
	}
	if snap.TimedMode {
		t.Error("v1 saves are never timed")
	}
}

func TestSaveAsyncLastWriteWins(t *testing.T) {
	rules := config.DefaultRules()
	store := newMemStore()
	c := NewCoordinator(store, rules, "", nil)
	ctx := context.Background()

	snap := engine.NewSession(rules, 1, nil).Snapshot()
	a := snap
	a.Score = 100
	b := snap
	b.Score = 200

	resA := c.SaveAsync(ctx, a)
	resB := c.SaveAsync(ctx, b)
	c.Flush()

	if err := <-resA; err != nil {
		t.Errorf("first async save reported %v", err)
	}
	if err := <-resB; err != nil {
		t.Errorf("second async save reported %v", err)
	}

	loaded, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Score != 200 {
		t.Errorf("loaded score = %d, the newest queued save must win", loaded.Score)
	}
}

func TestHasSavedGameAndDelete(t *testing.T) {
	rules := config.DefaultRules()
	c := NewCoordinator(newMemStore(), rules, "", nil)
	ctx := context.Background()

	has, err := c.HasSavedGame(ctx)
	if err != nil || has {
		t.Fatalf("HasSavedGame = %v, %v on empty store", has, err)
	}

	if err := c.Save(ctx, engine.NewSession(rules, 1, nil).Snapshot()); err != nil {
		t.Fatal(err)
	}
	if has, _ = c.HasSavedGame(ctx); !has {
		t.Error("HasSavedGame must report the saved game")
	}

	if err := c.Delete(ctx); err != nil {
		t.Fatal(err)
	}
	if has, _ = c.HasSavedGame(ctx); has {
		t.Error("HasSavedGame must report false after delete")
	}
}
