// Package tanksoar provides the playable TankSoar game: a keyboard-driven
// tank against bot opponents on a loaded map, rendered to a platform screen.
package tanksoar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tanksoar/internal/config"
	platformcore "github.com/vovakirdan/tanksoar/internal/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/bots"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/maps"
	"github.com/vovakirdan/tanksoar/internal/match"
	"github.com/vovakirdan/tanksoar/internal/registry"
)

// Options configures the match a Game sets up on every Reset.
type Options struct {
	Maps           *maps.Loader
	MapID          string
	Rules          core.Rules
	Difficulty     config.DifficultyConfig
	Opponents      []string // Seat specs such as "hunter" or "script:moves.yaml"
	PlayerName     string
	CommandTimeout time.Duration
	Logger         *log.Logger
}

// DefaultOptions plays the arena against three hunters.
func DefaultOptions() Options {
	cfg := config.DefaultRulesConfig()
	return Options{
		Maps:       maps.NewLoader(""),
		MapID:      "arena",
		Rules:      cfg.Rules(),
		Difficulty: cfg.Difficulty,
		Opponents:  []string{"hunter", "hunter", "hunter"},
		PlayerName: "you",
	}
}

const maxLogLines = 6

// Game runs one human-versus-bots match.
type Game struct {
	opts     Options
	mapInfo  maps.Map
	keyboard *bots.Keyboard
	match    *match.Match

	screenW int
	screenH int

	paused bool
	over   bool
	err    error
	log    []string
}

// New creates a game. Call Reset before stepping it.
func New(opts Options) *Game {
	if opts.Maps == nil {
		opts.Maps = maps.NewLoader("")
	}
	if opts.PlayerName == "" {
		opts.PlayerName = "you"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Game{opts: opts}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "tanksoar"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "TankSoar"
}

// Reset builds a fresh match from the options and the runtime seed.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.over = false
	g.err = nil
	g.log = nil

	if err := g.setup(cfg.Seed); err != nil {
		g.err = err
		g.over = true
		g.opts.Logger.Error("cannot start match", "error", err)
	}
}

func (g *Game) setup(seed int64) error {
	m, err := g.opts.Maps.LoadByID(g.opts.MapID)
	if err != nil {
		return err
	}
	g.mapInfo = m

	g.keyboard = bots.NewKeyboard()
	seats := []match.Seat{{
		Entity: core.Entity{Name: g.opts.PlayerName},
		Bot:    "keyboard",
		Source: g.keyboard,
	}}
	for i, spec := range g.opts.Opponents {
		id, arg := bots.ParseSeat(spec)
		b, err := registry.Create(id, registry.Options{
			Seed:       seed + int64(i) + 1,
			Rules:      g.opts.Rules,
			Difficulty: g.opts.Difficulty,
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

	mt, warnings, err := match.New(&m, seats, g.opts.Rules, seed, match.Config{
		CommandTimeout: g.opts.CommandTimeout,
		Logger:         g.opts.Logger,
	})
	if err != nil {
		return err
	}
	g.match = mt
	for _, w := range warnings {
		g.addLog(w.Message)
	}
	return nil
}

// Step consumes the frame's keys and advances the match one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if in.Has(platformcore.ActionPause) && !g.over {
		g.paused = !g.paused
	}
	if g.over || g.paused || g.match == nil {
		return platformcore.StepResult{State: g.State()}
	}

	g.keyboard.Apply(in)
	res := g.match.Step(context.Background())
	events := g.describe(res)
	for _, e := range events {
		g.addLog(e)
	}
	g.over = res.Done

	return platformcore.StepResult{State: g.State(), Events: events}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		GameOver: g.over,
		Paused:   g.paused,
	}
	if g.match == nil {
		return st
	}
	w := g.match.World()
	st.Tick = w.Tick()
	st.Score = w.Tanks()[0].Points
	if g.over {
		if id, ok := w.Winner(); ok {
			st.Winner = w.Tanks()[id].Name
		}
	}
	return st
}

// Result tallies the match for the leaderboard. Ok is false when no match
// could be set up.
func (g *Game) Result() (match.Result, bool) {
	if g.match == nil {
		return match.Result{}, false
	}
	reason := match.EndReasonCompleted
	if !g.over {
		reason = match.EndReasonCancelled
	}
	return g.match.Result(reason), true
}

// Err returns the setup error, if any.
func (g *Game) Err() error {
	return g.err
}

// describe turns a tick's events into log lines for the side panel.
func (g *Game) describe(res core.StepResult) []string {
	tanks := g.match.World().Tanks()
	name := func(id core.TankID) string {
		if id == core.NoTank || int(id) >= len(tanks) {
			return "collision"
		}
		return tanks[id].Name
	}

	var out []string
	for _, h := range res.Events.MissileHits {
		switch {
		case h.Charger:
			out = append(out, fmt.Sprintf("%s hit %s on a charger", name(h.Owner), name(h.Victim)))
		case h.Shielded:
			out = append(out, fmt.Sprintf("%s hit %s's shield", name(h.Owner), name(h.Victim)))
		default:
			out = append(out, fmt.Sprintf("%s hit %s", name(h.Owner), name(h.Victim)))
		}
	}
	for _, k := range res.Events.Kills {
		out = append(out, fmt.Sprintf("%s destroyed by %s", name(k.Victim), name(k.Killer)))
	}
	for _, c := range res.Events.Collisions {
		if c.Tank == 0 {
			out = append(out, fmt.Sprintf("%s: %s collision", name(c.Tank), c.Kind))
		}
	}
	for _, id := range res.Events.Pickups {
		out = append(out, fmt.Sprintf("%s picked up missiles", name(id)))
	}
	for _, w := range res.Warnings {
		if w.Tank == 0 {
			out = append(out, fmt.Sprintf("%s: %s", name(w.Tank), w.Message))
		}
	}
	if res.Done {
		if id, ok := g.match.World().Winner(); ok {
			out = append(out, fmt.Sprintf("%s wins", name(id)))
		} else {
			out = append(out, "match tied")
		}
	}
	return out
}

func (g *Game) addLog(line string) {
	g.log = append(g.log, line)
	if len(g.log) > maxLogLines {
		g.log = g.log[len(g.log)-maxLogLines:]
	}
}

// Log returns the recent event lines, oldest first.
func (g *Game) Log() []string {
	return append([]string(nil), g.log...)
}

func joinFlags(r core.Relatives) string {
	var parts []string
	if r.Forward {
		parts = append(parts, "F")
	}
	if r.Backward {
		parts = append(parts, "B")
	}
	if r.Left {
		parts = append(parts, "L")
	}
	if r.Right {
		parts = append(parts, "R")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "")
}
