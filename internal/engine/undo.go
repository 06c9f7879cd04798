package engine

import (
	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
)

// undoSnapshot is one rollback point captured immediately before a placement
// is applied. Chain state is part of the snapshot so undo never rewinds it
// inconsistently with the board.
type undoSnapshot struct {
	grid            *core.Grid
	tray            *core.Tray
	score           int
	tempScore       int
	chain           int
	blocksPlaced    int
	linesCleared    int
	illegalAttempts int
}

// UndoStack is a bounded history of pre-placement snapshots, gated by a
// per-level free credit budget plus ad-granted extras.
type UndoStack struct {
	depth       int
	stack       []undoSnapshot
	freeCredits int
	adCredits   int
	freePerLvl  int
}

// NewUndoStack creates an undo stack from the configured depth and budget.
func NewUndoStack(cfg config.UndoConfig) *UndoStack {
	depth := cfg.Depth
	if depth < 1 {
		depth = 1
	}
	return &UndoStack{
		depth:       depth,
		freeCredits: cfg.FreeCreditsPerLevel,
		freePerLvl:  cfg.FreeCreditsPerLevel,
	}
}

// record pushes a snapshot, evicting the oldest beyond the configured depth.
func (u *UndoStack) record(s undoSnapshot) {
	u.stack = append(u.stack, s)
	if len(u.stack) > u.depth {
		u.stack = u.stack[len(u.stack)-u.depth:]
	}
}

// pop returns the most recent snapshot, consuming one credit.
// Free credits are spent before ad-granted ones.
func (u *UndoStack) pop() (undoSnapshot, error) {
	if len(u.stack) == 0 {
		return undoSnapshot{}, &UndoError{Reason: ReasonNoHistory}
	}
	switch {
	case u.freeCredits > 0:
		u.freeCredits--
	case u.adCredits > 0:
		u.adCredits--
	default:
		return undoSnapshot{}, &UndoError{Reason: ReasonNoCreditsLeft}
	}
	s := u.stack[len(u.stack)-1]
	u.stack = u.stack[:len(u.stack)-1]
	return s, nil
}

// CanUndo reports whether an undo would currently succeed, and the reason
// when it would not.
func (u *UndoStack) CanUndo() (bool, UndoReason) {
	if len(u.stack) == 0 {
		return false, ReasonNoHistory
	}
	if u.freeCredits == 0 && u.adCredits == 0 {
		return false, ReasonNoCreditsLeft
	}
	return true, ""
}

// GrantExtra adds one ad-granted undo credit.
func (u *UndoStack) GrantExtra() {
	u.adCredits++
}

// FreeCredits returns the remaining free credits for this level.
func (u *UndoStack) FreeCredits() int {
	return u.freeCredits
}

// AdCredits returns the remaining ad-granted credits.
func (u *UndoStack) AdCredits() int {
	return u.adCredits
}

// resetLevel refreshes the free-credit budget and drops history. Called on
// level transitions: the grid baseline changes, so old snapshots are stale.
func (u *UndoStack) resetLevel() {
	u.freeCredits = u.freePerLvl
	u.stack = u.stack[:0]
}
