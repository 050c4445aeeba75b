package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/bots"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/match"
	"github.com/vovakirdan/tanksoar/internal/registry"
	"github.com/vovakirdan/tanksoar/internal/storage"
)

var (
	flagRunMap  string
	flagRunBots []string
	flagNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a headless match between bots",
	Long: `Run a match with no display. Every seat is a bot; the result is
printed and saved to the leaderboard.

Seats are bot ids from 'tanksoar bots'. Bots that need an argument take it
after a colon, e.g. script:./moves.yaml.

Use --fps 0 to run as fast as the bots answer. Ctrl+C stops the match and
records it as cancelled.

Examples:
  tanksoar run
  tanksoar run --map duel --bots hunter,wanderer --seed 7
  tanksoar run --bots hunter,script:./moves.yaml --fps 0
  tanksoar run --log-level debug`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunMap, "map", "arena", "Map id")
	runCmd.Flags().StringSliceVar(&flagRunBots, "bots", nil, "Comma-separated seats (default: from rules file)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the result")
}

func runRun(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger("tanksoar")
	if err != nil {
		return err
	}
	rulesCfg, err := loadRules()
	if err != nil {
		return err
	}
	rules := rulesCfg.Rules()

	m, err := mapLoader().LoadByID(flagRunMap)
	if err != nil {
		return err
	}

	specs := flagRunBots
	if len(specs) == 0 {
		specs = append([]string{"wanderer"}, defaultOpponents(rulesCfg)...)
	}
	s := seed()

	seats := make([]match.Seat, 0, len(specs))
	for i, spec := range specs {
		id, arg := bots.ParseSeat(spec)
		b, err := registry.Create(id, registry.Options{
			Seed:       s + int64(i) + 1,
			Rules:      rules,
			Difficulty: rulesCfg.Difficulty,
			Arg:        arg,
		})
		if err != nil {
			return err
		}
		seats = append(seats, match.Seat{
			Entity: core.Entity{Name: fmt.Sprintf("%s-%d", id, i+1)},
			Bot:    id,
			Source: b,
		})
	}

	mcfg := match.Config{
		FPS:            flagFPS,
		CommandTimeout: flagCommandTimeout,
		Logger:         logger,
	}
	if !flagNoSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open leaderboard, result will not be saved", "error", err)
		} else {
			defer store.Close()
			mcfg.Saver = store
		}
	}

	mt, _, err := match.New(&m, seats, rules, s, mcfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := mt.Run(ctx)
	printResult(res)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printResult(res match.Result) {
	fmt.Printf("Match %s on %s (seed %d)\n", res.MatchID, res.MapID, res.Seed)
	fmt.Printf("%s after %d ticks in %s\n", res.Reason, res.Ticks, res.Duration.Round(time.Millisecond))
	fmt.Println()

	nameW := len("Tank")
	for _, t := range res.Tanks {
		if len(t.Name) > nameW {
			nameW = len(t.Name)
		}
	}

	fmt.Printf("  %-*s  %-8s  %6s  %4s  %5s  %6s\n", nameW, "Tank", "Color", "Points", "Hits", "Kills", "Deaths")
	fmt.Printf("  %-*s  %-8s  %6s  %4s  %5s  %6s\n", nameW, strings.Repeat("-", nameW), "-----", "------", "----", "-----", "------")
	for _, t := range res.Tanks {
		fmt.Printf("  %-*s  %-8s  %6d  %4d  %5d  %6d\n", nameW, t.Name, t.Color, t.Points, t.Hits, t.Kills, t.Deaths)
	}

	fmt.Println()
	if res.Winner == "" {
		fmt.Println("No winner.")
	} else {
		fmt.Printf("Winner: %s\n", res.Winner)
	}
}
