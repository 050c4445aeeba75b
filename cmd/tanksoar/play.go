package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tanksoar/internal/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar"
	"github.com/vovakirdan/tanksoar/internal/platform/tui"
	"github.com/vovakirdan/tanksoar/internal/storage"
)

var (
	flagOpponents []string
	flagLogFile   string
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play against bots in the terminal",
	Long: `Drive a tank against computer opponents.

Without a map argument a map picker opens first, and leaving a match
returns to it.

Controls:
  Arrows     - Move north/east/south/west
  A/D        - Rotate left/right
  Space      - Fire
  S          - Toggle shields
  R          - Toggle radar
  +/-        - Radar power
  P          - Pause
  N          - New match (after game over)
  B/Esc      - Back to map picker
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Hunters start clumsy and sharpen as points pile up
  normal - Hunters start at 40% skill
  hard   - Hunters start at 80% skill
  fixed  - No progression, skill stays at the rules file's level

Examples:
  tanksoar play
  tanksoar play duel --opponents hunter
  tanksoar play arena --difficulty hard
  tanksoar play --log-file ./tanksoar.log --log-level debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringSliceVar(&flagOpponents, "opponents", nil, "Comma-separated bot seats (default: from rules file)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the screen is taken by the game)")
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog, err := playLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	rulesCfg, err := loadRules()
	if err != nil {
		return err
	}

	opts := tanksoar.Options{
		Maps:           mapLoader(),
		Rules:          rulesCfg.Rules(),
		Difficulty:     rulesCfg.Difficulty,
		Opponents:      flagOpponents,
		PlayerName:     "you",
		CommandTimeout: flagCommandTimeout,
		Logger:         logger,
	}
	if len(opts.Opponents) == 0 {
		opts.Opponents = defaultOpponents(rulesCfg)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open leaderboard: %v\n", err)
		// Continue without storage - the match still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()

	if len(args) == 1 {
		if _, err := opts.Maps.LoadByID(args[0]); err != nil {
			return fmt.Errorf("%w (run 'tanksoar maps' to list maps)", err)
		}
		opts.MapID = args[0]
		_, err := tui.Run(tanksoar.New(opts), store, cfg, logger)
		return err
	}

	return menuLoop(opts, store, cfg)
}

// menuLoop alternates between the map picker, matches and the leaderboard
// until the player quits.
func menuLoop(opts tanksoar.Options, store *storage.Store, cfg core.RuntimeConfig) error {
	for {
		menuResult, err := tui.RunMenu(opts.Maps, cfg)
		if err != nil {
			return err
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue
			}
			return nil
		}

		opts.MapID = menuResult.MapID
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		back, err := tui.Run(tanksoar.New(opts), store, cfg, opts.Logger)
		if err != nil {
			return err
		}
		if !back {
			return nil
		}
	}
}

// runtimeConfig sizes the screen from the terminal, falling back to 80x24.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	cfg.Seed = seed()
	return cfg
}

// playLogger sends logs to --log-file, or drops them: stderr would tear
// through the alt screen.
func playLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "tanksoar",
		Level:           level,
	})
	return logger, func() { f.Close() }, nil
}
