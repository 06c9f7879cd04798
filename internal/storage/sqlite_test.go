package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "game.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()
}

func TestSaveSlotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"version":2}`)
	if err := store.WriteSave(ctx, "default", "session-a", 2, payload); err != nil {
		t.Fatalf("WriteSave failed: %v", err)
	}

	got, found, err := store.ReadSave(ctx, "default")
	if err != nil || !found {
		t.Fatalf("ReadSave = %v, found=%v", err, found)
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %q, expected %q", got, payload)
	}

	id, found, err := store.SaveSessionID(ctx, "default")
	if err != nil || !found || id != "session-a" {
		t.Errorf("SaveSessionID = %q, %v, %v", id, found, err)
	}

	// Upsert replaces the payload and identity.
	if err := store.WriteSave(ctx, "default", "session-b", 2, []byte("x")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	id, _, _ = store.SaveSessionID(ctx, "default")
	if id != "session-b" {
		t.Errorf("session id after overwrite = %q, expected session-b", id)
	}

	infos, err := store.ListSaves(ctx)
	if err != nil {
		t.Fatalf("ListSaves failed: %v", err)
	}
	if len(infos) != 1 || infos[0].Slot != "default" || infos[0].Version != 2 {
		t.Errorf("ListSaves = %+v, expected one default slot at version 2", infos)
	}

	if err := store.DeleteSave(ctx, "default"); err != nil {
		t.Fatalf("DeleteSave failed: %v", err)
	}
	if _, found, _ := store.ReadSave(ctx, "default"); found {
		t.Error("save should be gone after delete")
	}
}

func TestReadSaveMissingSlot(t *testing.T) {
	store := openTestStore(t)
	_, found, err := store.ReadSave(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ReadSave failed: %v", err)
	}
	if found {
		t.Error("missing slot must report found=false")
	}
}

func TestResultsOrderedByScore(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []GameResult{
		{Score: 1200, Level: 3, Lines: 8},
		{Score: 4500, Level: 6, Lines: 21, Perfect: 2, Timed: true},
		{Score: 300, Level: 1, Lines: 2},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	results, err := store.TopResults(2)
	if err != nil {
		t.Fatalf("TopResults failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	if results[0].Score != 4500 || results[1].Score != 1200 {
		t.Errorf("results out of order: %d, %d", results[0].Score, results[1].Score)
	}
	if !results[0].Timed || results[0].Perfect != 2 {
		t.Errorf("timed flags lost: %+v", results[0])
	}

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore failed: %v", err)
	}
	if high != 4500 {
		t.Errorf("high score = %d, expected 4500", high)
	}
}

func TestHighScoreEmptyDatabase(t *testing.T) {
	store := openTestStore(t)
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore failed: %v", err)
	}
	if high != 0 {
		t.Errorf("high score = %d, expected 0 with no results", high)
	}
}

func TestRecordLevelScoreKeepsBest(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordLevelScore(3, 1500); err != nil {
		t.Fatalf("RecordLevelScore failed: %v", err)
	}
	// A lower score must not replace the stored best.
	if err := store.RecordLevelScore(3, 900); err != nil {
		t.Fatalf("RecordLevelScore failed: %v", err)
	}
	if got, _ := store.LevelHighScore(3); got != 1500 {
		t.Errorf("level best = %d, expected 1500", got)
	}

	if err := store.RecordLevelScore(3, 2000); err != nil {
		t.Fatalf("RecordLevelScore failed: %v", err)
	}
	if got, _ := store.LevelHighScore(3); got != 2000 {
		t.Errorf("level best = %d, expected 2000", got)
	}

	if got, _ := store.LevelHighScore(9); got != 0 {
		t.Errorf("unplayed level best = %d, expected 0", got)
	}
}
