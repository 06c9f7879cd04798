// Package config provides YAML-based rules configuration for the block
// puzzle engine. Every gameplay constant that is a design tunable rather
// than a hard invariant lives here: point values, chain bonus growth, level
// score curve, undo credits and timed-mode budgets.
package config

// Rules contains the full rules configuration for one game.
type Rules struct {
	Board   BoardConfig   `yaml:"board"`
	Scoring ScoringConfig `yaml:"scoring"`
	Levels  LevelConfig   `yaml:"levels"`
	Undo    UndoConfig    `yaml:"undo"`
	Timed   TimedConfig   `yaml:"timed"`
}

// BoardConfig defines board and tray dimensions.
type BoardConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	TraySize int `yaml:"tray_size"`
}

// ScoringConfig defines all point constants. The defaults are game-design
// values, not incidental numbers; changing them changes game balance.
type ScoringConfig struct {
	CellPoints          int `yaml:"cell_points"`           // Per placed cell
	ColorLinkThreshold  int `yaml:"color_link_threshold"`  // Same-color contacts needed for the multiplier
	ColorLinkMultiplier int `yaml:"color_link_multiplier"` // Placement points multiplier at threshold
	LinePoints          int `yaml:"line_points"`           // Per cleared row or column
	MonochromeBonus     int `yaml:"monochrome_bonus"`      // Extra per single-color row/column
	DiagonalPoints      int `yaml:"diagonal_points"`       // Per cleared diagonal pattern
	XPatternPoints      int `yaml:"x_pattern_points"`      // For the X pattern
	ChainStepPoints     int `yaml:"chain_step_points"`     // Additive bonus per chain step beyond the first
	PerfectLevelBonus   int `yaml:"perfect_level_bonus"`   // Level completed with zero illegal attempts
	TimedSecondPoints   int `yaml:"timed_second_points"`   // Per whole second remaining at level completion
}

// LevelConfig defines the required-score growth curve.
// RequiredScore(level) = Base + Step*(level-1); must stay monotonic.
type LevelConfig struct {
	BaseRequiredScore int `yaml:"base_required_score"`
	RequiredScoreStep int `yaml:"required_score_step"`
}

// UndoConfig defines undo history depth and credit budget.
type UndoConfig struct {
	Depth               int `yaml:"depth"`                  // Max retained snapshots
	FreeCreditsPerLevel int `yaml:"free_credits_per_level"` // Free undos before ad credits are needed
}

// TimedConfig defines the per-level countdown budget for timed mode.
// BudgetSeconds(level) = BaseSeconds + SecondsStep*(level-1).
type TimedConfig struct {
	BaseSeconds int `yaml:"base_seconds"`
	SecondsStep int `yaml:"seconds_step"`
}

// RequiredScore returns the cumulative temp score needed to complete the
// given 1-indexed level.
func (c LevelConfig) RequiredScore(level int) int {
	if level < 1 {
		level = 1
	}
	return c.BaseRequiredScore + c.RequiredScoreStep*(level-1)
}

// BudgetSeconds returns the timed-mode clock budget for the given level.
func (c TimedConfig) BudgetSeconds(level int) int {
	if level < 1 {
		level = 1
	}
	return c.BaseSeconds + c.SecondsStep*(level-1)
}

// Validate reports whether the rules are internally consistent.
func (r Rules) Validate() error {
	return validateRules(r)
}
