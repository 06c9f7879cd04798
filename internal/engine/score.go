package engine

import (
	"fmt"

	"github.com/vovakirdan/blocksmash/internal/config"
)

// BreakdownEntry is one itemized contribution to a placement's score delta.
type BreakdownEntry struct {
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// Breakdown is the ordered, itemized explanation of a score delta.
// Invariant: the sum of entry points equals the delta applied to the session.
type Breakdown struct {
	Entries []BreakdownEntry `json:"entries"`
	Total   int              `json:"total"`
}

func (b *Breakdown) add(description string, points int) {
	b.Entries = append(b.Entries, BreakdownEntry{Description: description, Points: points})
	b.Total += points
}

// Scorer converts placements and clear results into score deltas.
// Deterministic: identical inputs always produce identical output.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a scorer with the given point constants.
func NewScorer(cfg config.ScoringConfig) Scorer {
	return Scorer{cfg: cfg}
}

// ScorePlacement computes the score delta for one accepted placement.
//
//	placedCells   — number of cells the shape occupies
//	colorContacts — aggregate count of same-color orthogonal neighbors the
//	                shape touched on the pre-placement grid
//	clears        — detector output for the post-placement grid
//	chain         — consecutive clearing placements before this one
//
// Returns the delta, its itemized breakdown, and the new chain value.
// The chain resets to zero on any placement that clears nothing.
func (s Scorer) ScorePlacement(placedCells, colorContacts int, clears ClearResult, chain int) (int, Breakdown, int) {
	var bd Breakdown

	base := s.cfg.CellPoints * placedCells
	bd.add("Block placed", base)

	if colorContacts >= s.cfg.ColorLinkThreshold {
		bonus := base * (s.cfg.ColorLinkMultiplier - 1)
		if bonus > 0 {
			bd.add(fmt.Sprintf("Color link x%d", s.cfg.ColorLinkMultiplier), bonus)
		}
	}

	for _, st := range clears.Structures {
		switch st.Kind {
		case StructureRow:
			bd.add(fmt.Sprintf("Row %d cleared", st.Index+1), s.cfg.LinePoints)
			if st.Monochrome {
				bd.add(fmt.Sprintf("Row %d all %s", st.Index+1, st.Color), s.cfg.MonochromeBonus)
			}
		case StructureColumn:
			bd.add(fmt.Sprintf("Column %d cleared", st.Index+1), s.cfg.LinePoints)
			if st.Monochrome {
				bd.add(fmt.Sprintf("Column %d all %s", st.Index+1, st.Color), s.cfg.MonochromeBonus)
			}
		case StructureDiagonalDown, StructureDiagonalUp:
			bd.add("Diagonal cleared", s.cfg.DiagonalPoints)
		case StructureX:
			bd.add("X pattern cleared", s.cfg.XPatternPoints)
		}
	}

	newChain := 0
	if !clears.Empty() {
		newChain = chain + 1
		if bonus := s.cfg.ChainStepPoints * (newChain - 1); bonus > 0 {
			bd.add(fmt.Sprintf("Chain x%d", newChain), bonus)
		}
	}

	return bd.Total, bd, newChain
}

// ScoreLevelComplete computes the one-time bonuses applied when a level is
// completed: the perfect-level bonus and, in timed mode, points per whole
// second remaining on the clock.
func (s Scorer) ScoreLevelComplete(perfect bool, secondsRemaining int) (int, Breakdown) {
	var bd Breakdown
	if perfect {
		bd.add("Perfect level", s.cfg.PerfectLevelBonus)
	}
	if secondsRemaining > 0 {
		bd.add(fmt.Sprintf("Time bonus (%ds left)", secondsRemaining), s.cfg.TimedSecondPoints*secondsRemaining)
	}
	return bd.Total, bd
}
