// blocksmash is the command-line harness around the block puzzle game engine.
//
// Usage:
//
//	blocksmash simulate          - Run a deterministic seeded playout
//	blocksmash scores            - Show the scoreboard and per-level bests
//	blocksmash saves             - Inspect or delete saved games
//	blocksmash rules             - Print the effective rules configuration
//
// Global flags:
//
//	--db <path>      - Database path (default: ~/.blocksmash/blocksmash.db)
//	--config <path>  - Custom rules YAML
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blocksmash/internal/config"
)

var (
	// Global flags
	flagDBPath string
	flagConfig string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "blocksmash",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blocksmash",
	Short: "Block Smash - color-matching block puzzle engine",
	Long: `Block Smash is a color-matching block puzzle: place shapes from a
three-slot tray onto a 10x10 grid, clear full rows, columns and diagonal
patterns, and chain clears for bonus points.

Available commands:
  simulate - Run a deterministic seeded playout and print score breakdowns
  scores   - View the scoreboard and per-level high scores
  saves    - List, show or delete saved games
  rules    - Print the effective rules configuration

Examples:
  blocksmash simulate --seed 42 --placements 50
  blocksmash simulate --timed --save default
  blocksmash scores --limit 20
  blocksmash saves delete default --force`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blocksmash/blocksmash.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(rulesCmd)
}

// loadRules resolves the rules configuration for all commands.
func loadRules() (config.Rules, error) {
	rules, err := config.LoadRules(flagConfig)
	if err != nil {
		return rules, err
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}
