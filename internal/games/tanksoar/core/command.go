package core

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveCommand is one tank's requested action for a tick.
// The zero value is a no-op.
type MoveCommand struct {
	Move         Direction
	Rotate       Rotation
	Fire         bool
	RadarSwitch  *bool
	RadarPower   *int
	ShieldSwitch *bool
}

// IsNoop reports whether the command requests nothing.
func (c MoveCommand) IsNoop() bool {
	return c.Move == DirNone && c.Rotate == RotateNone && !c.Fire &&
		c.RadarSwitch == nil && c.RadarPower == nil && c.ShieldSwitch == nil
}

// WarningCode classifies a non-fatal problem.
type WarningCode string

const (
	WarnUnknownDirective   WarningCode = "unknown_directive"
	WarnDuplicateDirective WarningCode = "duplicate_directive"
	WarnMalformedDirective WarningCode = "malformed_directive"
	WarnMoveAndRotate      WarningCode = "move_and_rotate"
	WarnNoMissiles         WarningCode = "no_missiles"
	WarnRadarPowerRange    WarningCode = "radar_power_range"
	WarnPlacement          WarningCode = "invalid_placement"
	WarnLateCommand        WarningCode = "late_command"
)

// Warning reports a rejected or adjusted request. It is never fatal.
type Warning struct {
	Tank    TankID
	Code    WarningCode
	Message string
}

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("tank %d: %s: %s", w.Tank, w.Code, w.Message)
}

// Directive is a single textual order, e.g. {"move", "forward"}.
type Directive struct {
	Name string `yaml:"name"`
	Arg  string `yaml:"arg,omitempty"`
}

// ParseDirectiveLine splits "move forward" into a Directive.
func ParseDirectiveLine(line string) Directive {
	fields := strings.Fields(strings.ToLower(line))
	switch len(fields) {
	case 0:
		return Directive{}
	case 1:
		return Directive{Name: fields[0]}
	default:
		return Directive{Name: fields[0], Arg: strings.Join(fields[1:], " ")}
	}
}

// ParseDirectives folds directives into a MoveCommand for a tank facing
// `facing`. Unknown, malformed and repeated directives are dropped with a
// warning; the rest of the command is kept.
func ParseDirectives(id TankID, facing Direction, ds []Directive) (MoveCommand, []Warning) {
	var cmd MoveCommand
	var warnings []Warning
	seen := make(map[string]bool)

	warn := func(code WarningCode, format string, args ...any) {
		warnings = append(warnings, Warning{Tank: id, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	for _, d := range ds {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		arg := strings.ToLower(strings.TrimSpace(d.Arg))
		if name == "" {
			continue
		}
		if seen[name] {
			warn(WarnDuplicateDirective, "%q given more than once", name)
			continue
		}
		seen[name] = true

		switch name {
		case "move":
			if rel, ok := ParseRelative(arg); ok {
				cmd.Move = Absolute(facing, rel)
			} else if dir, ok := ParseDirection(arg); ok {
				cmd.Move = dir
			} else {
				warn(WarnMalformedDirective, "move direction %q", arg)
			}
		case "rotate":
			switch arg {
			case "left":
				cmd.Rotate = RotateLeft
			case "right":
				cmd.Rotate = RotateRight
			default:
				warn(WarnMalformedDirective, "rotate direction %q", arg)
			}
		case "fire":
			if arg != "" && arg != "missile" {
				warn(WarnMalformedDirective, "fire weapon %q", arg)
				continue
			}
			cmd.Fire = true
		case "radar":
			on, ok := parseSwitch(arg)
			if !ok {
				warn(WarnMalformedDirective, "radar switch %q", arg)
				continue
			}
			cmd.RadarSwitch = &on
		case "radar-power":
			n, err := strconv.Atoi(arg)
			if err != nil {
				warn(WarnMalformedDirective, "radar power %q", arg)
				continue
			}
			cmd.RadarPower = &n
		case "shields":
			on, ok := parseSwitch(arg)
			if !ok {
				warn(WarnMalformedDirective, "shields switch %q", arg)
				continue
			}
			cmd.ShieldSwitch = &on
		default:
			warn(WarnUnknownDirective, "%q", name)
		}
	}
	return cmd, warnings
}

func parseSwitch(s string) (bool, bool) {
	switch s {
	case "on", "true", "1":
		return true, true
	case "off", "false", "0":
		return false, true
	}
	return false, false
}

// validate reconciles a command with the tank's current resources and
// produces the tick's MoveRecord.
func validate(t *Tank, cmd MoveCommand, rules Rules) (MoveRecord, []Warning) {
	var rec MoveRecord
	var warnings []Warning

	warn := func(code WarningCode, format string, args ...any) {
		warnings = append(warnings, Warning{Tank: t.ID, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if cmd.Move != DirNone && !cmd.Move.Valid() {
		warn(WarnMalformedDirective, "move direction %d", cmd.Move)
		cmd.Move = DirNone
	}
	if cmd.Rotate != RotateNone && cmd.Rotate != RotateLeft && cmd.Rotate != RotateRight {
		warn(WarnMalformedDirective, "rotation %d", cmd.Rotate)
		cmd.Rotate = RotateNone
	}

	rec.Rotate = cmd.Rotate
	if cmd.Move != DirNone {
		if cmd.Rotate != RotateNone {
			warn(WarnMoveAndRotate, "move %s rejected, rotate %s takes priority", cmd.Move, cmd.Rotate)
		} else {
			rec.Move = cmd.Move
		}
	}

	if cmd.Fire {
		if t.Missiles <= 0 {
			warn(WarnNoMissiles, "fire rejected, no missiles left")
		} else {
			rec.Fire = true
		}
	}

	if cmd.RadarPower != nil {
		p := *cmd.RadarPower
		if p < 0 || p > rules.RadarMaxPower {
			warn(WarnRadarPowerRange, "radar power %d outside [0,%d]", p, rules.RadarMaxPower)
			p = clamp(p, 0, rules.RadarMaxPower)
		}
		rec.RadarPower = &p
	}
	if cmd.RadarSwitch != nil {
		on := *cmd.RadarSwitch
		rec.RadarSwitch = &on
	}
	if cmd.ShieldSwitch != nil {
		on := *cmd.ShieldSwitch
		rec.ShieldSwitch = &on
	}
	return rec, warnings
}
