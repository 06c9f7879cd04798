// Package timed wraps a game session with a per-level countdown clock:
// pause/resume, time-up handling with ad-gated continuation, and the
// time-remaining score bonus at level completion.
package timed

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
	"github.com/vovakirdan/blocksmash/internal/engine"
)

// DefaultTickInterval is how often the background clock advances.
const DefaultTickInterval = 100 * time.Millisecond

// Controller owns a session plus its countdown. Ticks and placements both
// mutate shared state, so every entry point takes the same mutex: a tick can
// never interleave with an in-flight placement.
type Controller struct {
	mu      sync.Mutex
	session *engine.Session
	cfg     config.TimedConfig
	logger  *log.Logger

	remaining time.Duration
	paused    bool

	timeGrants int // Ad-granted clock continuations

	done    chan struct{}
	stopped sync.Once
	loop    sync.WaitGroup
}

// New wraps a session in timed mode, starting the level-1 clock budget.
// The clock does not run until Start is called; tests drive Tick directly.
func New(session *engine.Session, cfg config.TimedConfig, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		session:   session,
		cfg:       cfg,
		logger:    logger,
		remaining: time.Duration(cfg.BudgetSeconds(session.Level())) * time.Second,
		done:      make(chan struct{}),
	}
}

// Start launches the background tick loop. The goroutine is owned by the
// controller and terminates when Close is called.
func (c *Controller) Start(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	c.loop.Add(1)
	go func() {
		defer c.loop.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-ticker.C:
				c.Tick(interval)
			}
		}
	}()
}

// Close stops the tick loop deterministically. Safe to call more than once.
func (c *Controller) Close() {
	c.stopped.Do(func() { close(c.done) })
	c.loop.Wait()
}

// Tick advances the countdown by the elapsed duration. Suspended while the
// session is paused or not actively playing.
func (c *Controller) Tick(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused || c.session.Phase() != engine.PhasePlaying {
		return
	}

	c.remaining -= elapsed
	if c.remaining <= 0 {
		c.remaining = 0
		c.handleTimeUp()
	}
}

// handleTimeUp runs with the mutex held: either consume a continuation grant
// and reset the current level's clock, or end the session.
func (c *Controller) handleTimeUp() {
	if c.timeGrants > 0 {
		c.timeGrants--
		c.remaining = time.Duration(c.cfg.BudgetSeconds(c.session.Level())) * time.Second
		c.logger.Info("time up, continuation consumed",
			"level", c.session.Level(), "budget", c.remaining)
		return
	}
	c.logger.Info("time up, session ended",
		"level", c.session.Level(), "score", c.session.Score())
	c.session.EndByTimeout()
}

// Place forwards a placement to the session under the clock mutex. When the
// placement completes the level, the clock freezes and the whole-seconds
// remainder is converted to the one-time completion bonus.
func (c *Controller) Place(slot int, origin core.Coord) (engine.Breakdown, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bd, err := c.session.Place(slot, origin)
	if err != nil {
		return bd, err
	}
	if c.session.Phase() == engine.PhaseLevelComplete {
		c.session.AddTimeBonus(c.remainingSecondsLocked())
	}
	return bd, nil
}

// Undo forwards an undo request under the clock mutex.
func (c *Controller) Undo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Undo()
}

// AdvanceLevel moves to the next level and starts its fresh clock budget.
func (c *Controller) AdvanceLevel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.AdvanceLevel(); err != nil {
		return err
	}
	c.remaining = time.Duration(c.cfg.BudgetSeconds(c.session.Level())) * time.Second
	return nil
}

// Pause stops the countdown without losing remaining time.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.session.Pause()
}

// Resume restarts the countdown from where Pause stopped it.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
	c.session.Resume()
}

// GrantTimeContinue accepts one external (ad-gated) clock continuation.
func (c *Controller) GrantTimeContinue() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeGrants++
}

// Remaining returns the time left on the current level's clock.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// RemainingSeconds returns the whole seconds left on the clock.
func (c *Controller) RemainingSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remainingSecondsLocked()
}

func (c *Controller) remainingSecondsLocked() int {
	return int(c.remaining / time.Second)
}

// Session exposes the wrapped session for read-only inspection.
func (c *Controller) Session() *engine.Session {
	return c.session
}

// Snapshot captures the session state plus the timed-mode clock.
func (c *Controller) Snapshot() engine.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.session.Snapshot()
	snap.TimedMode = true
	snap.RemainingSeconds = c.remainingSecondsLocked()
	return snap
}

// Restore rebuilds a timed controller from a snapshot taken by Snapshot.
func Restore(rules config.Rules, snap engine.SessionSnapshot, seed int64, sink engine.EventSink, logger *log.Logger) (*Controller, error) {
	session, err := engine.RestoreSession(rules, snap, seed, sink)
	if err != nil {
		return nil, err
	}
	c := New(session, rules.Timed, logger)
	if snap.RemainingSeconds > 0 {
		c.remaining = time.Duration(snap.RemainingSeconds) * time.Second
	}
	return c, nil
}
