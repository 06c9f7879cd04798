package save

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
	"github.com/vovakirdan/blocksmash/internal/engine"
)

// envelopeV1 is the original snapshot schema. It predates timed mode,
// continuation grants and the phase enumeration: pause state was a boolean
// and the clock was never persisted.
type envelopeV1 struct {
	Version int `json:"version"`
	Session struct {
		SessionID    string     `json:"session_id"`
		Paused       bool       `json:"paused"`
		GameOver     bool       `json:"game_over"`
		Score        int        `json:"score"`
		TempScore    int        `json:"temp_score"`
		Level        int        `json:"level"`
		BlocksPlaced int        `json:"blocks_placed"`
		LinesCleared int        `json:"lines_cleared"`
		Chain        int        `json:"chain"`
		HighScore    int        `json:"high_score"`
		Grid         *core.Grid `json:"grid"`
		Tray         *core.Tray `json:"tray"`
		UndoCredits  int        `json:"undo_credits"`
	} `json:"session"`
}

// migrateV1 upgrades a version-1 payload to the current snapshot shape.
// Boolean state flags collapse into the phase enumeration; fields the old
// schema never stored take their zero defaults.
func migrateV1(payload []byte, rules config.Rules) (engine.SessionSnapshot, error) {
	var old envelopeV1
	if err := json.Unmarshal(payload, &old); err != nil {
		return engine.SessionSnapshot{}, fmt.Errorf("%w: v1 parse: %v", ErrCorruptSnapshot, err)
	}

	phase := engine.PhasePlaying
	switch {
	case old.Session.GameOver:
		phase = engine.PhaseGameOver
	case old.Session.Paused:
		phase = engine.PhasePaused
	}

	snap := engine.SessionSnapshot{
		SessionID:       old.Session.SessionID,
		Phase:           phase,
		Score:           old.Session.Score,
		TempScore:       old.Session.TempScore,
		Level:           old.Session.Level,
		BlocksPlaced:    old.Session.BlocksPlaced,
		LinesCleared:    old.Session.LinesCleared,
		Chain:           old.Session.Chain,
		HighScore:       old.Session.HighScore,
		Grid:            old.Session.Grid,
		Tray:            old.Session.Tray,
		UndoFreeCredits: old.Session.UndoCredits,
	}

	if err := snap.Validate(rules); err != nil {
		return engine.SessionSnapshot{}, fmt.Errorf("%w: v1 migration: %v", ErrCorruptSnapshot, err)
	}
	return snap, nil
}
