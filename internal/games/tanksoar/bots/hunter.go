package bots

import (
	"context"
	"math/rand"

	"github.com/vovakirdan/tanksoar/internal/config"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/registry"
)

// Hunter tracks other tanks by sound, radar waves and incoming fire, and
// shoots whatever its radar shows straight ahead.
type Hunter struct {
	rng   *rand.Rand
	rules core.Rules
	diff  *config.DifficultyManager
}

// NewHunter creates a hunter from registry options.
func NewHunter(opts registry.Options) *Hunter {
	rules := opts.Rules
	if rules.MaxHealth == 0 {
		rules = core.DefaultRules()
	}
	return &Hunter{
		rng:   rand.New(rand.NewSource(opts.Seed)),
		rules: rules,
		diff:  config.NewDifficultyManager(opts.Difficulty),
	}
}

func (*Hunter) ID() string    { return "hunter" }
func (*Hunter) Title() string { return "Hunter" }

// Command decides one tick from the hunter's snapshot.
func (h *Hunter) Command(_ context.Context, s core.SensorSnapshot) (core.MoveCommand, error) {
	skill := h.diff.Skill(s.Points, s.Clock, h.rules.RadarMaxPower)
	var cmd core.MoveCommand

	h.manageShields(&cmd, s, skill)
	h.manageRadar(&cmd, s, skill)

	if h.rng.Float64() < skill.Hesitation {
		return cmd, nil
	}

	if d, ok := centerTank(s); ok && d <= skill.FireRange && s.Missiles > 0 {
		cmd.Fire = true
		return cmd, nil
	}

	if s.Health < skill.RetreatBelow {
		if d, ok := centerLabel(s, core.RadarHealth); ok && d > 0 && !s.Blocked.Forward {
			cmd.Move = s.Facing
			return cmd, nil
		}
	}

	switch target := h.target(s); target {
	case core.RelLeft:
		cmd.Rotate = core.RotateLeft
	case core.RelRight, core.RelBackward:
		cmd.Rotate = core.RotateRight
	case core.RelForward:
		if s.Blocked.Forward {
			cmd.Fire = s.Missiles > 0
		} else {
			cmd.Move = s.Facing
		}
	default:
		h.wander(&cmd, s)
	}
	return cmd, nil
}

// target picks the most urgent relative direction to face.
func (h *Hunter) target(s core.SensorSnapshot) core.Relative {
	if s.Sound != core.RelNone {
		return s.Sound
	}
	for _, rs := range []core.Relatives{s.RWaves, s.Incoming} {
		switch {
		case rs.Forward:
			return core.RelForward
		case rs.Left:
			return core.RelLeft
		case rs.Right:
			return core.RelRight
		case rs.Backward:
			return core.RelBackward
		}
	}
	return core.RelNone
}

func (h *Hunter) wander(cmd *core.MoveCommand, s core.SensorSnapshot) {
	switch {
	case s.Blocked.Forward:
		if s.Blocked.Left || (!s.Blocked.Right && h.rng.Intn(2) == 0) {
			cmd.Rotate = core.RotateRight
		} else {
			cmd.Rotate = core.RotateLeft
		}
	case h.rng.Float64() < 0.1:
		cmd.Rotate = core.RotateLeft
	default:
		cmd.Move = s.Facing
	}
}

func (h *Hunter) manageShields(cmd *core.MoveCommand, s core.SensorSnapshot, skill config.Skill) {
	incoming := s.Incoming.Forward || s.Incoming.Backward || s.Incoming.Left || s.Incoming.Right
	want := s.ShieldOn
	switch {
	case incoming && !s.ShieldOn && s.Energy > 4*h.rules.ShieldEnergyCost:
		want = h.rng.Float64() < skill.ShieldChance
	case !incoming && s.ShieldOn:
		want = false
	}
	if want != s.ShieldOn {
		cmd.ShieldSwitch = &want
	}
}

func (h *Hunter) manageRadar(cmd *core.MoveCommand, s core.SensorSnapshot, skill config.Skill) {
	want := s.Energy > h.rules.MaxEnergy/10
	if want != s.RadarOn {
		cmd.RadarSwitch = &want
	}
	if want && s.RadarSetting != skill.RadarPower {
		p := skill.RadarPower
		cmd.RadarPower = &p
	}
}

// centerTank returns the distance of a tank straight ahead on radar.
func centerTank(s core.SensorSnapshot) (int, bool) {
	return centerLabel(s, core.RadarTank)
}

func centerLabel(s core.SensorSnapshot, label core.RadarLabel) (int, bool) {
	if !s.RadarOn {
		return 0, false
	}
	for _, c := range s.Radar {
		if c.Position == core.RadarCenter && c.Label == label {
			return c.Distance, true
		}
	}
	return 0, false
}
