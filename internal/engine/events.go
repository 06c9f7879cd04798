package engine

// EventSink receives discrete gameplay events for external trackers
// (achievements, leaderboards). The engine only emits; it never queries
// collaborator state. Injected at session construction so tests can
// substitute fakes.
type EventSink interface {
	// ScoreChanged fires after every score delta with the new total.
	ScoreChanged(total int)

	// LevelCompleted fires when a level's threshold is reached.
	LevelCompleted(level int, perfect bool, score int)

	// LinesCleared fires when a placement clears rows or columns.
	LinesCleared(count int, totalLines int)

	// GameOver fires once when the session reaches its terminal state.
	GameOver(score int, level int)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ScoreChanged(int)              {}
func (NopSink) LevelCompleted(int, bool, int) {}
func (NopSink) LinesCleared(int, int)         {}
func (NopSink) GameOver(int, int)             {}
