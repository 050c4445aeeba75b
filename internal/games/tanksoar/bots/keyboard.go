package bots

import (
	"context"
	"sync"

	platformcore "github.com/vovakirdan/tanksoar/internal/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// Keyboard is the human seat. Key presses accumulate into a pending command
// that the next tick consumes; a tick with no presses is a no-op.
type Keyboard struct {
	mu      sync.Mutex
	pending core.MoveCommand
	last    core.SensorSnapshot
}

// NewKeyboard creates a keyboard seat.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (*Keyboard) ID() string    { return "keyboard" }
func (*Keyboard) Title() string { return "You" }

// Apply folds every action in the frame into the pending command.
func (k *Keyboard) Apply(in platformcore.InputFrame) {
	for a, on := range in.Actions {
		if on {
			k.Press(a)
		}
	}
}

// Press folds one action into the pending command. Toggles are resolved
// against the state seen in the latest snapshot.
func (k *Keyboard) Press(a platformcore.Action) {
	k.mu.Lock()
	defer k.mu.Unlock()

	p := &k.pending
	switch a {
	case platformcore.ActionMoveNorth:
		p.Move, p.Rotate = core.DirNorth, core.RotateNone
	case platformcore.ActionMoveEast:
		p.Move, p.Rotate = core.DirEast, core.RotateNone
	case platformcore.ActionMoveSouth:
		p.Move, p.Rotate = core.DirSouth, core.RotateNone
	case platformcore.ActionMoveWest:
		p.Move, p.Rotate = core.DirWest, core.RotateNone
	case platformcore.ActionRotateLeft:
		p.Move, p.Rotate = core.DirNone, core.RotateLeft
	case platformcore.ActionRotateRight:
		p.Move, p.Rotate = core.DirNone, core.RotateRight
	case platformcore.ActionFire:
		p.Fire = true
	case platformcore.ActionShields:
		on := !k.last.ShieldOn
		if p.ShieldSwitch != nil {
			on = !*p.ShieldSwitch
		}
		p.ShieldSwitch = &on
	case platformcore.ActionRadar:
		on := !k.last.RadarOn
		if p.RadarSwitch != nil {
			on = !*p.RadarSwitch
		}
		p.RadarSwitch = &on
	case platformcore.ActionRadarUp, platformcore.ActionRadarDown:
		n := k.last.RadarSetting
		if p.RadarPower != nil {
			n = *p.RadarPower
		}
		if a == platformcore.ActionRadarUp {
			n++
		} else if n > 0 {
			n--
		}
		p.RadarPower = &n
	}
}

// Command hands over and clears the pending command.
func (k *Keyboard) Command(_ context.Context, s core.SensorSnapshot) (core.MoveCommand, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	cmd := k.pending
	k.pending = core.MoveCommand{}
	k.last = s
	return cmd, nil
}
