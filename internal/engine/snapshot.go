package engine

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
)

// SessionSnapshot is a serializable copy of the full session state. The
// persistence coordinator and cloud-sync collaborators only ever hold
// snapshots, never live references; every field round-trips losslessly.
type SessionSnapshot struct {
	SessionID       string     `json:"session_id"`
	Phase           Phase      `json:"phase"`
	Score           int        `json:"score"`
	TempScore       int        `json:"temp_score"`
	Level           int        `json:"level"`
	BlocksPlaced    int        `json:"blocks_placed"`
	LinesCleared    int        `json:"lines_cleared"`
	Chain           int        `json:"chain"`
	PerfectLevels   int        `json:"perfect_levels"`
	IllegalAttempts int        `json:"illegal_attempts"`
	HighScore       int        `json:"high_score"`
	Grid            *core.Grid `json:"grid"`
	Tray            *core.Tray `json:"tray"`
	UndoFreeCredits int        `json:"undo_free_credits"`
	UndoAdCredits   int        `json:"undo_ad_credits"`
	ContinueGrants  int        `json:"continue_grants"`

	// Timed-mode fields; zero when the session is untimed.
	TimedMode        bool `json:"timed_mode"`
	RemainingSeconds int  `json:"remaining_seconds"`
}

// Snapshot captures a consistent, deeply-copied view of the session,
// safe to serialize while gameplay continues.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		SessionID:       s.id,
		Phase:           s.phase,
		Score:           s.score,
		TempScore:       s.levels.TempScore(),
		Level:           s.levels.Level(),
		BlocksPlaced:    s.blocksPlaced,
		LinesCleared:    s.linesCleared,
		Chain:           s.chain,
		PerfectLevels:   s.perfectLevels,
		IllegalAttempts: s.levels.illegalAttempts,
		HighScore:       s.highScore,
		Grid:            s.grid.Clone(),
		Tray:            s.tray.Clone(),
		UndoFreeCredits: s.undo.FreeCredits(),
		UndoAdCredits:   s.undo.AdCredits(),
		ContinueGrants:  s.continueGrants,
	}
}

// Validate checks the snapshot's structural invariants against the rules.
func (snap SessionSnapshot) Validate(rules config.Rules) error {
	if snap.Grid == nil || snap.Tray == nil {
		return fmt.Errorf("engine: snapshot missing grid or tray")
	}
	if snap.Grid.W != rules.Board.Width || snap.Grid.H != rules.Board.Height {
		return fmt.Errorf("engine: snapshot grid is %dx%d, rules expect %dx%d",
			snap.Grid.W, snap.Grid.H, rules.Board.Width, rules.Board.Height)
	}
	if len(snap.Grid.Cells) != snap.Grid.W*snap.Grid.H {
		return fmt.Errorf("engine: snapshot grid has %d cells, expected %d",
			len(snap.Grid.Cells), snap.Grid.W*snap.Grid.H)
	}
	if snap.Level < 1 {
		return fmt.Errorf("engine: snapshot level %d is invalid", snap.Level)
	}
	if snap.Score < 0 || snap.TempScore < 0 || snap.Chain < 0 {
		return fmt.Errorf("engine: snapshot counters are negative")
	}
	switch snap.Phase {
	case PhasePlaying, PhasePaused, PhaseLevelComplete, PhaseGameOver:
	default:
		return fmt.Errorf("engine: snapshot phase %q is unknown", snap.Phase)
	}
	return nil
}

// RestoreSession rebuilds a session from a snapshot. The snapshot is
// validated first; a structurally invalid snapshot is rejected rather than
// loaded partially.
func RestoreSession(rules config.Rules, snap SessionSnapshot, seed int64, sink EventSink) (*Session, error) {
	if err := snap.Validate(rules); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	s := &Session{
		id:     snap.SessionID,
		rules:  rules,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
		scorer: NewScorer(rules.Scoring),
		sink:   sink,

		phase:          snap.Phase,
		grid:           snap.Grid.Clone(),
		tray:           snap.Tray.Clone(),
		score:          snap.Score,
		blocksPlaced:   snap.BlocksPlaced,
		linesCleared:   snap.LinesCleared,
		chain:          snap.Chain,
		perfectLevels:  snap.PerfectLevels,
		highScore:      snap.HighScore,
		continueGrants: snap.ContinueGrants,
	}

	s.levels = newLevelState(rules.Levels)
	s.levels.level = snap.Level
	s.levels.tempScore = snap.TempScore
	s.levels.illegalAttempts = snap.IllegalAttempts

	s.undo = NewUndoStack(rules.Undo)
	s.undo.freeCredits = snap.UndoFreeCredits
	s.undo.adCredits = snap.UndoAdCredits

	return s, nil
}
