package engine

import "github.com/vovakirdan/blocksmash/internal/config"

// levelState tracks per-level progress for the session: temporary score
// against the level's required threshold and whether any illegal placement
// was attempted ("perfect level" detection).
type levelState struct {
	cfg             config.LevelConfig
	level           int // 1-indexed
	tempScore       int
	illegalAttempts int
}

func newLevelState(cfg config.LevelConfig) levelState {
	return levelState{cfg: cfg, level: 1}
}

// Level returns the current 1-indexed level.
func (l *levelState) Level() int {
	return l.level
}

// TempScore returns the in-progress score for the current level.
func (l *levelState) TempScore() int {
	return l.tempScore
}

// RequiredScore returns the threshold that completes the current level.
// Monotonically increasing in the level index.
func (l *levelState) RequiredScore() int {
	return l.cfg.RequiredScore(l.level)
}

// addPoints credits points toward the level and reports whether the level
// is now complete.
func (l *levelState) addPoints(delta int) bool {
	l.tempScore += delta
	return l.tempScore >= l.RequiredScore()
}

// recordIllegalAttempt marks the level as no longer perfect.
func (l *levelState) recordIllegalAttempt() {
	l.illegalAttempts++
}

// isPerfect returns true if no illegal placement was attempted this level.
func (l *levelState) isPerfect() bool {
	return l.illegalAttempts == 0
}

// advance moves to the next level, resetting per-level progress.
func (l *levelState) advance() {
	l.level++
	l.tempScore = 0
	l.illegalAttempts = 0
}
