package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blocksmash/internal/config"
	"github.com/vovakirdan/blocksmash/internal/core"
	"github.com/vovakirdan/blocksmash/internal/engine"
	"github.com/vovakirdan/blocksmash/internal/save"
	"github.com/vovakirdan/blocksmash/internal/storage"
	"github.com/vovakirdan/blocksmash/internal/timed"
)

var (
	flagSeed       int64
	flagPlacements int
	flagTimed      bool
	flagSaveSlot   string
	flagForce      bool
	flagMoveCost   int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a deterministic seeded playout",
	Long: `Run a scripted playout of the engine: every turn the first legal
placement (scanning the tray in slot order and the grid top-to-bottom) is
applied, and its itemized score breakdown is printed. Identical seeds
produce identical playouts.

In timed mode each placement costs a fixed number of simulated seconds,
exercising the countdown, time-up handling and time bonuses without
real timers.

Examples:
  blocksmash simulate --seed 42 --placements 50
  blocksmash simulate --timed --move-cost 5
  blocksmash simulate --save default --force`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Int64Var(&flagSeed, "seed", 1, "RNG seed for the shape deal")
	simulateCmd.Flags().IntVar(&flagPlacements, "placements", 30, "Maximum placements to attempt")
	simulateCmd.Flags().BoolVar(&flagTimed, "timed", false, "Play the timed variant")
	simulateCmd.Flags().StringVar(&flagSaveSlot, "save", "", "Save the final session into this slot")
	simulateCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing save without asking")
	simulateCmd.Flags().IntVar(&flagMoveCost, "move-cost", 3, "Simulated seconds consumed per placement (timed mode)")
}

// logSink forwards engine events to the structured logger, standing in for
// the achievements/leaderboard collaborator.
type logSink struct{}

func (logSink) ScoreChanged(total int) {
	logger.Debug("score changed", "total", total)
}

func (logSink) LevelCompleted(level int, perfect bool, score int) {
	logger.Info("level completed", "level", level, "perfect", perfect, "score", score)
}

func (logSink) LinesCleared(count, total int) {
	logger.Info("lines cleared", "count", count, "total", total)
}

func (logSink) GameOver(score, level int) {
	logger.Info("game over", "score", score, "level", level)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}

	session := engine.NewSession(rules, flagSeed, logSink{})

	var clock *timed.Controller
	if flagTimed {
		clock = timed.New(session, rules.Timed, logger)
		defer clock.Close()
	}

	place := session.Place
	advance := session.AdvanceLevel
	if clock != nil {
		place = clock.Place
		advance = clock.AdvanceLevel
	}

	levelScores := map[int]int{}
	for i := 0; i < flagPlacements; i++ {
		if session.Phase() == engine.PhaseLevelComplete {
			printLevelComplete(session)
			levelScores[session.Level()] = session.TempScore()
			if err := advance(); err != nil {
				return err
			}
		}
		if session.Phase() == engine.PhaseGameOver {
			break
		}

		slot, origin, ok := nextMove(session)
		if !ok {
			break
		}

		bd, err := place(slot, origin)
		if err != nil {
			if errors.Is(err, engine.ErrNoLegalMoves) {
				break
			}
			return err
		}
		fmt.Printf("#%d: slot %d at %s -> +%d\n", i+1, slot, origin, bd.Total)
		for _, e := range bd.Entries {
			fmt.Printf("     %-28s %6d\n", e.Description, e.Points)
		}

		if clock != nil {
			clock.Tick(time.Duration(flagMoveCost) * time.Second)
		}
	}

	if session.Phase() == engine.PhaseLevelComplete {
		printLevelComplete(session)
		levelScores[session.Level()] = session.TempScore()
	}

	fmt.Printf("\nfinal: score=%d level=%d blocks=%d lines=%d chain=%d phase=%s\n",
		session.Score(), session.Level(), session.BlocksPlaced(),
		session.LinesCleared(), session.Chain(), session.Phase())
	if clock != nil {
		fmt.Printf("clock: %ds remaining\n", clock.RemainingSeconds())
	}

	return persistOutcome(rules, session, clock, levelScores)
}

// nextMove scans tray slots in order and returns the first legal placement.
func nextMove(session *engine.Session) (int, core.Coord, bool) {
	tray := session.Tray()
	for slot := 0; slot < tray.Size(); slot++ {
		shape := tray.Get(slot)
		if shape == nil {
			continue
		}
		if origin, ok := engine.FindLegalPlacement(session.Grid(), *shape); ok {
			return slot, origin, true
		}
	}
	return 0, core.Coord{}, false
}

func printLevelComplete(session *engine.Session) {
	fmt.Printf("== level %d complete (perfect levels so far: %d) ==\n",
		session.Level(), session.PerfectLevels())
	for _, e := range session.LevelBreakdown().Entries {
		fmt.Printf("     %-28s %6d\n", e.Description, e.Points)
	}
}

// persistOutcome records the result and optionally saves the session.
func persistOutcome(rules config.Rules, session *engine.Session, clock *timed.Controller, levelScores map[int]int) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, skipping persistence", "error", err)
		return nil
	}
	defer store.Close()

	for level, score := range levelScores {
		if err := store.RecordLevelScore(level, score); err != nil {
			return err
		}
	}

	if session.Phase() == engine.PhaseGameOver {
		result := storage.GameResult{
			Score:   session.Score(),
			Level:   session.Level(),
			Lines:   session.LinesCleared(),
			Perfect: session.PerfectLevels(),
			Timed:   clock != nil,
		}
		if _, err := store.SaveResult(result); err != nil {
			return err
		}
		logger.Info("result recorded", "score", result.Score, "level", result.Level)
	}

	if flagSaveSlot == "" {
		return nil
	}

	ctx := context.Background()
	coord := save.NewCoordinator(store, rules, flagSaveSlot, logger)
	if flagForce {
		coord.ConfirmOverwrite()
	}

	snap := session.Snapshot()
	if clock != nil {
		snap = clock.Snapshot()
	}
	if err := coord.Save(ctx, snap); err != nil {
		if errors.Is(err, save.ErrSaveConflict) {
			return fmt.Errorf("slot %q already holds a different game; rerun with --force to overwrite", flagSaveSlot)
		}
		return err
	}
	logger.Info("session saved", "slot", flagSaveSlot, "session", session.ID())
	return nil
}
