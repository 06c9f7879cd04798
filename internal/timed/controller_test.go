package timed

import (
	"testing"
	"time"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
	"github.com/vovakirdan/blocksmash/internal/engine"
)

func newTimed(t *testing.T, rules config.Rules) *Controller {
	t.Helper()
	session := engine.NewSession(rules, 1, nil)
	c := New(session, rules.Timed, nil)
	t.Cleanup(c.Close)
	return c
}

func putShape(t *testing.T, s *engine.Session, slot int, kind core.ShapeKind, color core.Color) {
	t.Helper()
	sh, ok := core.NewShape(kind, color)
	if !ok {
		t.Fatalf("unknown shape kind %s", kind)
	}
	s.Tray().Slots[slot] = &sh
}

func TestNewStartsWithLevelBudget(t *testing.T) {
	c := newTimed(t, config.DefaultRules())
	if got := c.Remaining(); got != 120*time.Second {
		t.Errorf("remaining = %s, expected 120s", got)
	}
}

func TestTickCountsDownOnlyWhilePlaying(t *testing.T) {
	c := newTimed(t, config.DefaultRules())

	c.Tick(10 * time.Second)
	if got := c.Remaining(); got != 110*time.Second {
		t.Errorf("remaining = %s, expected 110s", got)
	}

	c.Pause()
	c.Tick(10 * time.Second)
	if got := c.Remaining(); got != 110*time.Second {
		t.Errorf("paused tick consumed time, remaining = %s", got)
	}

	c.Resume()
	c.Tick(10 * time.Second)
	if got := c.Remaining(); got != 100*time.Second {
		t.Errorf("remaining = %s after resume, expected 100s", got)
	}
}

func TestTimeUpEndsSession(t *testing.T) {
	c := newTimed(t, config.DefaultRules())

	c.Tick(200 * time.Second)
	if got := c.Remaining(); got != 0 {
		t.Errorf("remaining = %s, expected clamp at 0", got)
	}
	if c.Session().Phase() != engine.PhaseGameOver {
		t.Errorf("phase = %s, expected game over", c.Session().Phase())
	}
}

func TestTimeUpConsumesGrant(t *testing.T) {
	c := newTimed(t, config.DefaultRules())
	c.GrantTimeContinue()

	c.Tick(200 * time.Second)
	if c.Session().Phase() != engine.PhasePlaying {
		t.Fatalf("phase = %s, grant should keep the session alive", c.Session().Phase())
	}
	if got := c.Remaining(); got != 120*time.Second {
		t.Errorf("remaining = %s, expected fresh level budget", got)
	}

	// The grant is one-shot.
	c.Tick(200 * time.Second)
	if c.Session().Phase() != engine.PhaseGameOver {
		t.Errorf("phase = %s, expected game over once grants are spent", c.Session().Phase())
	}
}

func TestPlaceAppliesTimeBonusOnCompletion(t *testing.T) {
	rules := config.DefaultRules()
	rules.Levels.BaseRequiredScore = 300
	c := newTimed(t, rules)
	s := c.Session()
	for x := 1; x < 10; x++ {
		s.Grid().Fill(core.C(x, 0), core.ColorRed)
	}
	putShape(t, s, 0, "single", core.ColorRed)

	c.Tick(20 * time.Second) // 100s left on the clock

	if _, err := c.Place(0, core.C(0, 0)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if s.Phase() != engine.PhaseLevelComplete {
		t.Fatalf("phase = %s, expected level complete", s.Phase())
	}
	// 301 placement + 1000 perfect + 100s * 10 points.
	if s.Score() != 2301 {
		t.Errorf("score = %d, expected 2301", s.Score())
	}
}

func TestAdvanceLevelResetsClock(t *testing.T) {
	rules := config.DefaultRules()
	rules.Levels.BaseRequiredScore = 300
	c := newTimed(t, rules)
	s := c.Session()
	for x := 1; x < 10; x++ {
		s.Grid().Fill(core.C(x, 0), core.ColorRed)
	}
	putShape(t, s, 0, "single", core.ColorRed)

	if _, err := c.Place(0, core.C(0, 0)); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if err := c.AdvanceLevel(); err != nil {
		t.Fatalf("AdvanceLevel failed: %v", err)
	}
	if s.Level() != 2 {
		t.Fatalf("level = %d, expected 2", s.Level())
	}
	if got := c.Remaining(); got != 135*time.Second {
		t.Errorf("remaining = %s, expected the level-2 budget of 135s", got)
	}
}

func TestSnapshotCarriesClock(t *testing.T) {
	rules := config.DefaultRules()
	c := newTimed(t, rules)
	c.Tick(30 * time.Second)

	snap := c.Snapshot()
	if !snap.TimedMode {
		t.Error("snapshot must mark timed mode")
	}
	if snap.RemainingSeconds != 90 {
		t.Errorf("remaining seconds = %d, expected 90", snap.RemainingSeconds)
	}

	restored, err := Restore(rules, snap, 1, nil, nil)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	defer restored.Close()
	if got := restored.Remaining(); got != 90*time.Second {
		t.Errorf("restored remaining = %s, expected 90s", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rules := config.DefaultRules()
	c := New(engine.NewSession(rules, 1, nil), rules.Timed, nil)
	c.Start(time.Millisecond)
	c.Close()
	c.Close()
}
