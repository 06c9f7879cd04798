package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blocksmash/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the scoreboard and per-level high scores",
	Long: `Display the top finished games and the stored best score for each
level.

Examples:
  blocksmash scores
  blocksmash scores --limit 20`,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func runScores(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.TopResults(flagLimit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println(dimStyle.Render("No games recorded yet. Run 'blocksmash simulate' first."))
		return nil
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %8s %6s %6s %8s %6s  %s",
		"#", "SCORE", "LEVEL", "LINES", "PERFECT", "TIMED", "WHEN")))
	b.WriteString("\n")

	for i, r := range results {
		mode := "no"
		if r.Timed {
			mode = "yes"
		}
		when := ""
		if !r.CreatedAt.IsZero() {
			when = r.CreatedAt.Format("2006-01-02 15:04")
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-4d %8d %6d %6d %8d %6s  %s",
			i+1, r.Score, r.Level, r.Lines, r.Perfect, mode, when)))
		b.WriteString("\n")
	}
	fmt.Print(b.String())

	high, err := store.HighScore()
	if err != nil {
		return err
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("all-time high score: %d", high)))

	// Per-level bests, while any are stored.
	fmt.Println()
	fmt.Println(headerStyle.Render("LEVEL BESTS"))
	shown := false
	for level := 1; level <= 50; level++ {
		best, err := store.LevelHighScore(level)
		if err != nil {
			return err
		}
		if best == 0 {
			continue
		}
		shown = true
		fmt.Println(rowStyle.Render(fmt.Sprintf("level %-3d %8d", level, best)))
	}
	if !shown {
		fmt.Println(dimStyle.Render("none recorded"))
	}
	return nil
}
