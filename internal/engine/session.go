// Package engine implements the game-state engine for the block puzzle:
// placement validation, clear detection, scoring, level progression, undo
// and game-over detection, composed into a single-writer session.
package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
)

// Phase is the session's single tagged state. Exactly one phase holds at a
// time; there are no independent boolean state flags.
type Phase string

const (
	PhasePlaying       Phase = "playing"
	PhasePaused        Phase = "paused"
	PhaseLevelComplete Phase = "level_complete"
	PhaseGameOver      Phase = "game_over"
)

// Session is the orchestrator owning one game's mutable state: board, tray,
// score, level, chain and undo history. All mutations are driven by one
// logical caller; the session itself is not goroutine-safe. Concurrent
// wrappers (timed mode, async persistence) serialize access externally.
type Session struct {
	id    string
	rules config.Rules
	rng   *rand.Rand
	seed  int64

	phase Phase
	grid  *core.Grid
	tray  *core.Tray

	score        int // Cumulative score of completed levels
	blocksPlaced int
	linesCleared int
	chain        int
	highScore    int

	levels        levelState
	perfectLevels int

	scorer Scorer
	undo   *UndoStack
	sink   EventSink

	continueGrants int

	lastBreakdown  Breakdown // Most recent placement breakdown
	levelBreakdown Breakdown // Completion bonuses of the last finished level
}

// NewSession creates a session with the given rules and event sink.
// A nil sink is replaced with NopSink. The seed drives tray generation;
// identical seeds produce identical shape sequences.
func NewSession(rules config.Rules, seed int64, sink EventSink) *Session {
	if sink == nil {
		sink = NopSink{}
	}
	s := &Session{
		rules:  rules,
		seed:   seed,
		scorer: NewScorer(rules.Scoring),
		sink:   sink,
	}
	s.StartNewGame()
	return s
}

// StartNewGame resets the session to a fresh game at level 1.
func (s *Session) StartNewGame() {
	s.id = uuid.NewString()
	s.rng = rand.New(rand.NewSource(s.seed))
	s.phase = PhasePlaying
	s.grid = core.NewGrid(s.rules.Board.Width, s.rules.Board.Height)
	s.tray = core.NewTray(s.rules.Board.TraySize)
	s.score = 0
	s.blocksPlaced = 0
	s.linesCleared = 0
	s.chain = 0
	s.perfectLevels = 0
	s.continueGrants = 0
	s.levels = newLevelState(s.rules.Levels)
	s.undo = NewUndoStack(s.rules.Undo)
	s.lastBreakdown = Breakdown{}
	s.levelBreakdown = Breakdown{}
	s.tray.Refill(s.rng, 1)
}

// ID returns the session identity, regenerated by StartNewGame.
func (s *Session) ID() string { return s.id }

// Phase returns the current session phase.
func (s *Session) Phase() Phase { return s.phase }

// Score returns the total score: completed levels plus current progress.
func (s *Session) Score() int { return s.score + s.levels.TempScore() }

// TempScore returns the in-progress score of the current level.
func (s *Session) TempScore() int { return s.levels.TempScore() }

// Level returns the current 1-indexed level.
func (s *Session) Level() int { return s.levels.Level() }

// RequiredScore returns the current level's completion threshold.
func (s *Session) RequiredScore() int { return s.levels.RequiredScore() }

// BlocksPlaced returns the number of accepted placements this game.
func (s *Session) BlocksPlaced() int { return s.blocksPlaced }

// LinesCleared returns the number of rows and columns cleared this game.
func (s *Session) LinesCleared() int { return s.linesCleared }

// Chain returns the count of consecutive clearing placements.
func (s *Session) Chain() int { return s.chain }

// PerfectLevels returns how many levels completed with zero illegal attempts.
func (s *Session) PerfectLevels() int { return s.perfectLevels }

// IsPerfectLevel returns true while the current level has no illegal attempts.
func (s *Session) IsPerfectLevel() bool { return s.levels.isPerfect() }

// HighScore returns the best score observed by this session.
func (s *Session) HighScore() int { return s.highScore }

// SetHighScore seeds the session's known high score (display only).
func (s *Session) SetHighScore(score int) {
	if score > s.highScore {
		s.highScore = score
	}
}

// Grid returns the live grid. Callers must not mutate it; use Snapshot for
// a safe copy.
func (s *Session) Grid() *core.Grid { return s.grid }

// Tray returns the live tray. Callers must not mutate it.
func (s *Session) Tray() *core.Tray { return s.tray }

// LastBreakdown returns the itemized breakdown of the latest placement.
func (s *Session) LastBreakdown() Breakdown { return s.lastBreakdown }

// LevelBreakdown returns the completion bonuses of the last finished level.
func (s *Session) LevelBreakdown() Breakdown { return s.levelBreakdown }

// Undos returns the undo stack for credit inspection and ad grants.
func (s *Session) Undos() *UndoStack { return s.undo }

// Preview validates a placement without applying it, for UI highlighting.
func (s *Session) Preview(slot int, origin core.Coord) Verdict {
	shape := s.tray.Get(slot)
	if shape == nil {
		return Verdict{Reason: ReasonEmptySlot}
	}
	return Validate(s.grid, *shape, origin)
}

// Place applies a placement intent: validate, snapshot for undo, mutate,
// detect and resolve clears, score, then evaluate level completion and game
// over. Rejected placements leave all state untouched except the level's
// illegal-attempt counter.
func (s *Session) Place(slot int, origin core.Coord) (Breakdown, error) {
	switch s.phase {
	case PhaseGameOver:
		return Breakdown{}, ErrNoLegalMoves
	case PhasePaused, PhaseLevelComplete:
		return Breakdown{}, ErrWrongPhase
	}

	shape := s.tray.Get(slot)
	if shape == nil {
		return Breakdown{}, &PlacementError{Reason: ReasonEmptySlot}
	}

	if v := Validate(s.grid, *shape, origin); !v.Legal {
		s.levels.recordIllegalAttempt()
		return Breakdown{}, &PlacementError{Reason: v.Reason}
	}

	s.undo.record(s.snapshotForUndo())

	// Aggregate same-color contacts are measured against the grid as it
	// was before the shape lands.
	contacts := 0
	cells := shape.Cells(origin)
	for _, c := range cells {
		contacts += s.grid.SameColorNeighbors(c, shape.Color)
	}

	taken := s.tray.Take(slot)
	for _, c := range cells {
		s.grid.Fill(c, taken.Color)
	}
	s.blocksPlaced++

	clears := Detect(s.grid)
	Resolve(s.grid, clears)

	delta, bd, newChain := s.scorer.ScorePlacement(len(cells), contacts, clears, s.chain)
	s.chain = newChain
	s.lastBreakdown = bd

	if lines := clears.Lines(); lines > 0 {
		s.linesCleared += lines
		s.sink.LinesCleared(lines, s.linesCleared)
	}

	completed := s.levels.addPoints(delta)
	s.trackHighScore()
	s.sink.ScoreChanged(s.Score())

	if s.tray.IsEmpty() {
		s.tray.Refill(s.rng, s.levels.Level())
	}

	if completed {
		s.completeLevel()
		return bd, nil
	}

	if !s.anyLegalMove() {
		s.gameOver()
	}
	return bd, nil
}

// Undo rolls the session back to the snapshot taken before the last accepted
// placement, consuming one credit. Grid, tray and every scoring counter are
// restored together.
func (s *Session) Undo() error {
	if s.phase != PhasePlaying {
		return ErrWrongPhase
	}
	snap, err := s.undo.pop()
	if err != nil {
		return err
	}
	s.grid = snap.grid
	s.tray = snap.tray
	s.score = snap.score
	s.levels.tempScore = snap.tempScore
	s.levels.illegalAttempts = snap.illegalAttempts
	s.chain = snap.chain
	s.blocksPlaced = snap.blocksPlaced
	s.linesCleared = snap.linesCleared
	s.sink.ScoreChanged(s.Score())
	return nil
}

// Pause suspends gameplay. Placements are rejected until Resume.
func (s *Session) Pause() {
	if s.phase == PhasePlaying {
		s.phase = PhasePaused
	}
}

// Resume returns a paused session to play.
func (s *Session) Resume() {
	if s.phase == PhasePaused {
		s.phase = PhasePlaying
	}
}

// AddTimeBonus credits the timed-mode completion bonus: points per whole
// second remaining. Valid only during level-complete presentation.
func (s *Session) AddTimeBonus(secondsRemaining int) {
	if s.phase != PhaseLevelComplete || secondsRemaining <= 0 {
		return
	}
	delta, bd := s.scorer.ScoreLevelComplete(false, secondsRemaining)
	s.levels.tempScore += delta
	s.levelBreakdown.Entries = append(s.levelBreakdown.Entries, bd.Entries...)
	s.levelBreakdown.Total += bd.Total
	s.trackHighScore()
	s.sink.ScoreChanged(s.Score())
}

// AdvanceLevel moves a completed session to the next level: the temporary
// score freezes into the cumulative score and a fresh grid baseline and tray
// are dealt.
func (s *Session) AdvanceLevel() error {
	if s.phase != PhaseLevelComplete {
		return ErrWrongPhase
	}
	s.score += s.levels.TempScore()
	s.levels.advance()
	s.grid = core.NewGrid(s.rules.Board.Width, s.rules.Board.Height)
	s.tray = core.NewTray(s.rules.Board.TraySize)
	s.tray.Refill(s.rng, s.levels.Level())
	s.undo.resetLevel()
	s.chain = 0
	s.phase = PhasePlaying
	return nil
}

// GrantContinue accepts one external (ad-gated) continuation grant.
func (s *Session) GrantContinue() {
	s.continueGrants++
}

// ContinueAfterGameOver consumes a continuation grant to revive a game-over
// session: the tray is redealt and, if the board still offers no legal move,
// cleared to guarantee one. Returns false when no grant is available.
func (s *Session) ContinueAfterGameOver() bool {
	if s.phase != PhaseGameOver || s.continueGrants == 0 {
		return false
	}
	s.continueGrants--
	s.phase = PhasePlaying
	s.tray.Refill(s.rng, s.levels.Level())
	if !s.anyLegalMove() {
		s.grid = core.NewGrid(s.rules.Board.Width, s.rules.Board.Height)
	}
	return true
}

// EndByTimeout forces the terminal state when the timed-mode clock runs out.
func (s *Session) EndByTimeout() {
	if s.phase == PhaseGameOver {
		return
	}
	s.gameOver()
}

func (s *Session) completeLevel() {
	s.phase = PhaseLevelComplete
	perfect := s.levels.isPerfect()
	if perfect {
		s.perfectLevels++
	}
	delta, bd := s.scorer.ScoreLevelComplete(perfect, 0)
	s.levels.tempScore += delta
	s.levelBreakdown = bd
	s.trackHighScore()
	if delta > 0 {
		s.sink.ScoreChanged(s.Score())
	}
	s.sink.LevelCompleted(s.levels.Level(), perfect, s.Score())
}

func (s *Session) gameOver() {
	s.phase = PhaseGameOver
	s.sink.GameOver(s.Score(), s.levels.Level())
}

// anyLegalMove reports whether any remaining tray shape fits anywhere.
func (s *Session) anyLegalMove() bool {
	for _, shape := range s.tray.Remaining() {
		if HasLegalPlacement(s.grid, shape) {
			return true
		}
	}
	return false
}

func (s *Session) trackHighScore() {
	if total := s.Score(); total > s.highScore {
		s.highScore = total
	}
}

func (s *Session) snapshotForUndo() undoSnapshot {
	return undoSnapshot{
		grid:            s.grid.Clone(),
		tray:            s.tray.Clone(),
		score:           s.score,
		tempScore:       s.levels.TempScore(),
		chain:           s.chain,
		blocksPlaced:    s.blocksPlaced,
		linesCleared:    s.linesCleared,
		illegalAttempts: s.levels.illegalAttempts,
	}
}
