// tanksoar runs TankSoar matches: grid tank battles between scripted,
// computer-controlled and human-driven tanks.
//
// Usage:
//
//	tanksoar run                 - Run a headless bot match and print the result
//	tanksoar play [map]          - Play against bots in the terminal
//	tanksoar maps [map]          - List maps or show one
//	tanksoar bots                - List available bots
//	tanksoar scores              - Show the leaderboard
//	tanksoar serve               - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>        - RNG seed for reproducible matches (0 = time-based)
//	--fps <rate>          - Ticks per second (default: 4)
//	--db <path>           - Leaderboard database (default: ~/.tanksoar/scores.db)
//	--config <path>       - Rules YAML file
//	--difficulty <name>   - Bot preset: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanksoar/internal/config"
	"github.com/vovakirdan/tanksoar/internal/core"

	// Import bots to register them
	_ "github.com/vovakirdan/tanksoar/internal/games/tanksoar/bots"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/maps"
)

var (
	// Global flags
	flagFPS            int
	flagSeed           int64
	flagDBPath         string
	flagConfig         string
	flagDifficulty     string
	flagMapsDir        string
	flagLogLevel       string
	flagCommandTimeout time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanksoar",
	Short: "TankSoar - grid tank battles in your terminal",
	Long: `TankSoar is a turn-based tank battle on a square grid. Tanks steer with
radar, sound and smell, fire missiles, raise shields and refuel on chargers.

Available commands:
  run      - Run a headless match between bots
  play     - Play against bots in the terminal
  maps     - List or show maps
  bots     - List available bots
  scores   - View the leaderboard
  serve    - Start SSH server for remote play

Examples:
  tanksoar run --map duel --bots hunter,wanderer --seed 42
  tanksoar play arena --difficulty hard
  tanksoar maps duel
  tanksoar serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	def := core.DefaultConfig()

	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", def.TickRate, "Tick rate (ticks per second, 0 = unpaced for run)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tanksoar/scores.db", "Path to leaderboard database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Bot difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "", "Directory with extra map files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&flagCommandTimeout, "command-timeout", 200*time.Millisecond, "How long each tank may think per tick")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(botsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger at the --log-level threshold.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger, nil
}

// loadRules reads the rules file and applies --difficulty on top.
func loadRules() (config.RulesConfig, error) {
	cfg, err := config.LoadRules(flagConfig)
	if err != nil {
		return config.RulesConfig{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return config.RulesConfig{}, err
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, nil
}

func mapLoader() *maps.Loader {
	return maps.NewLoader(flagMapsDir)
}

// seed resolves --seed, where 0 means time-based.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// defaultOpponents fills the bot seats from the rules file.
func defaultOpponents(cfg config.RulesConfig) []string {
	n := cfg.Bots.Count
	if n < 1 {
		n = 1
	}
	id := cfg.Bots.Default
	if id == "" {
		id = "hunter"
	}
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}
