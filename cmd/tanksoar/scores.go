package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tanksoar/internal/platform/tui"
	"github.com/vovakirdan/tanksoar/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display tank standings across completed matches. In a terminal the
interactive leaderboard opens; otherwise a plain table is printed.

Examples:
  tanksoar scores
  tanksoar scores --limit 5 | cat`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of tanks to print")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening leaderboard: %w", err)
	}
	defer store.Close()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		cfg := runtimeConfig()
		_, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
		return err
	}

	standings, err := store.TopTanks(cmd.Context(), flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving standings: %w", err)
	}
	printStandings(cmd.Context(), store, standings)
	return nil
}

func printStandings(ctx context.Context, store *storage.Store, standings []storage.Standing) {
	fmt.Println("TankSoar Leaderboard")
	fmt.Println()

	if len(standings) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tanksoar run' to play the first one!")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %7s  %4s  %6s  %5s  %6s\n", "Rank", "Tank", "Bot", "Matches", "Wins", "Points", "Kills", "Deaths")
	fmt.Printf("  %-4s  %-16s  %-10s  %7s  %4s  %6s  %5s  %6s\n", "----", "----", "---", "-------", "----", "------", "-----", "------")
	for i, s := range standings {
		fmt.Printf("  %-4d  %-16s  %-10s  %7d  %4d  %6d  %5d  %6d\n",
			i+1, s.Name, s.Bot, s.Matches, s.Wins, s.Points, s.Kills, s.Deaths)
	}

	fmt.Println()
	if best, err := store.BestScore(ctx, standings[0].Name); err == nil {
		fmt.Printf("Best single match for %s: %d\n", standings[0].Name, best)
	}
}
