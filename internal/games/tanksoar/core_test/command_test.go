package core_test

import (
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

func TestParseDirectives(t *testing.T) {
	testCases := []struct {
		name     string
		facing   core.Direction
		lines    []string
		move     core.Direction
		rotate   core.Rotation
		fire     bool
		warnings []core.WarningCode
	}{
		{
			name:   "relative move",
			facing: core.DirEast,
			lines:  []string{"move left"},
			move:   core.DirNorth,
		},
		{
			name:   "compass move",
			facing: core.DirEast,
			lines:  []string{"move south"},
			move:   core.DirSouth,
		},
		{
			name:   "rotate and fire",
			facing: core.DirNorth,
			lines:  []string{"rotate right", "fire missile"},
			rotate: core.RotateRight,
			fire:   true,
		},
		{
			name:     "duplicate move keeps first",
			facing:   core.DirNorth,
			lines:    []string{"move forward", "move backward"},
			move:     core.DirNorth,
			warnings: []core.WarningCode{core.WarnDuplicateDirective},
		},
		{
			name:     "unknown directive",
			facing:   core.DirNorth,
			lines:    []string{"dance", "fire"},
			fire:     true,
			warnings: []core.WarningCode{core.WarnUnknownDirective},
		},
		{
			name:     "malformed rotate",
			facing:   core.DirNorth,
			lines:    []string{"rotate around"},
			warnings: []core.WarningCode{core.WarnMalformedDirective},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ds := make([]core.Directive, 0, len(tc.lines))
			for _, l := range tc.lines {
				ds = append(ds, core.ParseDirectiveLine(l))
			}
			cmd, warnings := core.ParseDirectives(0, tc.facing, ds)

			if cmd.Move != tc.move {
				t.Errorf("Move = %v, expected %v", cmd.Move, tc.move)
			}
			if cmd.Rotate != tc.rotate {
				t.Errorf("Rotate = %v, expected %v", cmd.Rotate, tc.rotate)
			}
			if cmd.Fire != tc.fire {
				t.Errorf("Fire = %v, expected %v", cmd.Fire, tc.fire)
			}
			if len(warnings) != len(tc.warnings) {
				t.Fatalf("warnings = %v, expected codes %v", warnings, tc.warnings)
			}
			for i, w := range warnings {
				if w.Code != tc.warnings[i] {
					t.Errorf("warning %d code = %s, expected %s", i, w.Code, tc.warnings[i])
				}
			}
		})
	}
}

func TestParseDirectivesSwitches(t *testing.T) {
	ds := []core.Directive{
		{Name: "radar", Arg: "on"},
		{Name: "radar-power", Arg: "5"},
		{Name: "shields", Arg: "off"},
	}
	cmd, warnings := core.ParseDirectives(0, core.DirNorth, ds)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if cmd.RadarSwitch == nil || !*cmd.RadarSwitch {
		t.Error("radar should be switched on")
	}
	if cmd.RadarPower == nil || *cmd.RadarPower != 5 {
		t.Errorf("radar power = %v, expected 5", cmd.RadarPower)
	}
	if cmd.ShieldSwitch == nil || *cmd.ShieldSwitch {
		t.Error("shields should be switched off")
	}
	if cmd.IsNoop() {
		t.Error("IsNoop() = true, expected false")
	}
	if !(core.MoveCommand{}).IsNoop() {
		t.Error("zero command should be a no-op")
	}
}
