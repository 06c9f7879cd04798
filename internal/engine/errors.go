package engine

import (
	"errors"
	"fmt"
)

// ErrNoLegalMoves is returned by Place once the session has reached game
// over: no shape left in the tray fits anywhere on the grid.
var ErrNoLegalMoves = errors.New("engine: no legal moves remain")

// ErrWrongPhase is returned when an operation is not valid in the session's
// current phase (e.g. placing while paused or during level-complete).
var ErrWrongPhase = errors.New("engine: operation not valid in current phase")

// PlacementReason categorizes why a placement was rejected.
type PlacementReason string

const (
	// ReasonOutOfBounds indicates a shape cell falls outside the grid.
	ReasonOutOfBounds PlacementReason = "OUT_OF_BOUNDS"

	// ReasonOverlap indicates a target cell is already occupied.
	ReasonOverlap PlacementReason = "OVERLAP"

	// ReasonNoColorContact indicates the shape touches no same-color cell
	// on a non-empty grid.
	ReasonNoColorContact PlacementReason = "NO_COLOR_CONTACT"

	// ReasonEmptySlot indicates the tray slot holds no shape.
	ReasonEmptySlot PlacementReason = "EMPTY_SLOT"
)

// PlacementError reports an illegal placement. It is recoverable: the caller
// uses the reason for preview feedback and the session state is unchanged
// except for the illegal-attempt counter.
type PlacementError struct {
	Reason PlacementReason
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	return fmt.Sprintf("engine: invalid placement: %s", e.Reason)
}

// IsInvalidPlacement returns true if the error is a placement rejection.
// Uses errors.As to handle wrapped errors.
func IsInvalidPlacement(err error) bool {
	var pe *PlacementError
	return errors.As(err, &pe)
}

// UndoReason categorizes why an undo was refused.
type UndoReason string

const (
	// ReasonNoHistory indicates no snapshot is available to restore.
	ReasonNoHistory UndoReason = "NO_HISTORY"

	// ReasonNoCreditsLeft indicates history exists but every free and
	// ad-granted credit has been consumed.
	ReasonNoCreditsLeft UndoReason = "NO_CREDITS_LEFT"
)

// UndoError reports why an undo request could not be served so the caller
// can route to "watch an ad" (NoCreditsLeft) or a plain no-op (NoHistory).
type UndoError struct {
	Reason UndoReason
}

// Error implements the error interface.
func (e *UndoError) Error() string {
	return fmt.Sprintf("engine: undo unavailable: %s", e.Reason)
}
