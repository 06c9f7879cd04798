package config

import (
	_ "embed"
	"fmt"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// DefaultRules returns the built-in rules configuration.
// These values match the original game design.
func DefaultRules() Rules {
	return Rules{
		Board: BoardConfig{
			Width:    10,
			Height:   10,
			TraySize: 3,
		},
		Scoring: ScoringConfig{
			CellPoints:          1,
			ColorLinkThreshold:  3,
			ColorLinkMultiplier: 2,
			LinePoints:          100,
			MonochromeBonus:     200,
			DiagonalPoints:      300,
			XPatternPoints:      250,
			ChainStepPoints:     50,
			PerfectLevelBonus:   1000,
			TimedSecondPoints:   10,
		},
		Levels: LevelConfig{
			BaseRequiredScore: 1000,
			RequiredScoreStep: 500,
		},
		Undo: UndoConfig{
			Depth:               1,
			FreeCreditsPerLevel: 3,
		},
		Timed: TimedConfig{
			BaseSeconds: 120,
			SecondsStep: 15,
		},
	}
}

func validateRules(r Rules) error {
	if r.Board.Width < 1 || r.Board.Height < 1 {
		return fmt.Errorf("config: board dimensions must be positive, got %dx%d", r.Board.Width, r.Board.Height)
	}
	if r.Board.TraySize < 1 {
		return fmt.Errorf("config: tray size must be positive, got %d", r.Board.TraySize)
	}
	if r.Levels.RequiredScoreStep < 0 {
		return fmt.Errorf("config: required score step must be non-negative, got %d", r.Levels.RequiredScoreStep)
	}
	if r.Scoring.ChainStepPoints < 0 {
		return fmt.Errorf("config: chain step points must be non-negative, got %d", r.Scoring.ChainStepPoints)
	}
	if r.Scoring.ColorLinkMultiplier < 1 {
		return fmt.Errorf("config: color link multiplier must be at least 1, got %d", r.Scoring.ColorLinkMultiplier)
	}
	if r.Undo.Depth < 1 {
		return fmt.Errorf("config: undo depth must be at least 1, got %d", r.Undo.Depth)
	}
	if r.Timed.BaseSeconds < 1 {
		return fmt.Errorf("config: timed base seconds must be positive, got %d", r.Timed.BaseSeconds)
	}
	return nil
}
