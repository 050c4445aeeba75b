package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar"
	"github.com/vovakirdan/tanksoar/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TankSoar SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a map picker and its own
match against bots; sessions never share a battlefield. Results go to one
leaderboard shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tanksoar/host_key

Examples:
  tanksoar serve                           # Listen on :23234 with auto-generated key
  tanksoar serve --ssh :2222               # Listen on port 2222
  tanksoar serve --host-key ./my_host_key  # Use specific host key
  tanksoar serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringSliceVar(&flagOpponents, "opponents", nil, "Comma-separated bot seats (default: from rules file)")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger("tanksoar-ssh")
	if err != nil {
		return err
	}
	rulesCfg, err := loadRules()
	if err != nil {
		return err
	}

	game := tanksoar.DefaultOptions()
	game.Maps = mapLoader()
	game.Rules = rulesCfg.Rules()
	game.Difficulty = rulesCfg.Difficulty
	game.Opponents = flagOpponents
	if len(game.Opponents) == 0 {
		game.Opponents = defaultOpponents(rulesCfg)
	}
	game.CommandTimeout = flagCommandTimeout

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Game = game
	cfg.Logger = logger

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return err
	}

	logger.Info("connect with: ssh localhost -p <port>", "address", server.Addr())
	return server.ListenAndServe()
}
