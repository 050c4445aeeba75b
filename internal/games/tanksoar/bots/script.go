package bots

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"gopkg.in/yaml.v3"
)

// Script is a YAML list of directive steps replayed one per tick.
type Script struct {
	Name  string       `yaml:"name"`
	Loop  bool         `yaml:"loop"`
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptStep is one tick's directives, optionally repeated.
type ScriptStep struct {
	Do     []string `yaml:"do"`
	Repeat int      `yaml:"repeat,omitempty"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bots: reading script %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("bots: script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes a script and rejects directives that would only
// produce warnings at run time.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}
	for i, step := range s.Steps {
		if step.Repeat < 0 {
			return nil, fmt.Errorf("step %d: negative repeat %d", i+1, step.Repeat)
		}
		if _, warnings := core.ParseDirectives(0, core.DirNorth, directives(step.Do)); len(warnings) > 0 {
			return nil, fmt.Errorf("step %d: %s: %s", i+1, warnings[0].Code, warnings[0].Message)
		}
	}
	if s.Name == "" {
		s.Name = "script"
	}
	return &s, nil
}

func directives(lines []string) []core.Directive {
	ds := make([]core.Directive, 0, len(lines))
	for _, l := range lines {
		ds = append(ds, core.ParseDirectiveLine(l))
	}
	return ds
}

// ScriptBot replays a Script. Relative moves resolve against the facing in
// each tick's snapshot.
type ScriptBot struct {
	script *Script
	ticks  [][]core.Directive

	mu   sync.Mutex
	next int
}

// NewScriptBot creates a bot that plays s from the first step.
func NewScriptBot(s *Script) *ScriptBot {
	b := &ScriptBot{script: s}
	for _, step := range s.Steps {
		n := step.Repeat
		if n == 0 {
			n = 1
		}
		ds := directives(step.Do)
		for i := 0; i < n; i++ {
			b.ticks = append(b.ticks, ds)
		}
	}
	return b
}

func (*ScriptBot) ID() string      { return "script" }
func (b *ScriptBot) Title() string { return "Script " + b.script.Name }

// Command returns the next scripted step. A finished, non-looping script
// idles. A step whose directives do not parse cleanly is an error; scripts
// built without ParseScript are not validated up front.
func (b *ScriptBot) Command(_ context.Context, s core.SensorSnapshot) (core.MoveCommand, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.next >= len(b.ticks) {
		if !b.script.Loop {
			return core.MoveCommand{}, nil
		}
		b.next = 0
	}
	ds := b.ticks[b.next]
	b.next++

	cmd, warnings := core.ParseDirectives(s.Tank, s.Facing, ds)
	if len(warnings) > 0 {
		return core.MoveCommand{}, fmt.Errorf("script %s step %d: %s: %s",
			b.script.Name, b.next, warnings[0].Code, warnings[0].Message)
	}
	return cmd, nil
}
