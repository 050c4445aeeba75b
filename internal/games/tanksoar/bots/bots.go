// Package bots provides the built-in TankSoar command sources. Every bot sees
// only its own SensorSnapshot and keeps a private RNG, so bot choices never
// perturb the world's random sequence.
package bots

import (
	"context"
	"math/rand"
	"strings"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/registry"
)

func init() {
	registry.Register(registry.BotInfo{
		ID:          "idle",
		Title:       "Idle",
		Description: "Sits still and never acts.",
	}, func(registry.Options) (registry.Bot, error) {
		return NewIdle(), nil
	})
	registry.Register(registry.BotInfo{
		ID:          "wanderer",
		Title:       "Wanderer",
		Description: "Roams at random and fires blindly now and then.",
	}, func(opts registry.Options) (registry.Bot, error) {
		return NewWanderer(opts.Seed), nil
	})
	registry.Register(registry.BotInfo{
		ID:          "hunter",
		Title:       "Hunter",
		Description: "Uses radar, sound and incoming warnings to track and shoot; sharpens with difficulty.",
	}, func(opts registry.Options) (registry.Bot, error) {
		return NewHunter(opts), nil
	})
	registry.Register(registry.BotInfo{
		ID:          "script",
		Title:       "Script",
		NeedsArg:    true,
		Description: "Replays directives from a YAML script (script:<path>).",
	}, func(opts registry.Options) (registry.Bot, error) {
		s, err := LoadScript(opts.Arg)
		if err != nil {
			return nil, err
		}
		return NewScriptBot(s), nil
	})
}

// ParseSeat splits a seat spec such as "script:moves.yaml" into a registry
// id and its argument.
func ParseSeat(spec string) (id, arg string) {
	id, arg, _ = strings.Cut(strings.TrimSpace(spec), ":")
	return id, arg
}

// Idle never does anything.
type Idle struct{}

// NewIdle creates an idle bot.
func NewIdle() *Idle { return &Idle{} }

func (*Idle) ID() string    { return "idle" }
func (*Idle) Title() string { return "Idle" }

// Command always returns a no-op.
func (*Idle) Command(context.Context, core.SensorSnapshot) (core.MoveCommand, error) {
	return core.MoveCommand{}, nil
}

// Wanderer drives forward until blocked and turns at random.
type Wanderer struct {
	rng *rand.Rand
}

// NewWanderer creates a wanderer with its own seeded RNG.
func NewWanderer(seed int64) *Wanderer {
	return &Wanderer{rng: rand.New(rand.NewSource(seed))}
}

func (*Wanderer) ID() string    { return "wanderer" }
func (*Wanderer) Title() string { return "Wanderer" }

// Command picks the next wander step.
func (w *Wanderer) Command(_ context.Context, s core.SensorSnapshot) (core.MoveCommand, error) {
	var cmd core.MoveCommand
	switch {
	case s.Blocked.Forward || w.rng.Float64() < 0.15:
		cmd.Rotate = w.turn()
	default:
		cmd.Move = s.Facing
	}
	if s.Missiles > 0 && w.rng.Float64() < 0.05 {
		cmd.Fire = true
	}
	return cmd, nil
}

func (w *Wanderer) turn() core.Rotation {
	if w.rng.Intn(2) == 0 {
		return core.RotateLeft
	}
	return core.RotateRight
}
