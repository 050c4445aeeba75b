package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

type stubBot struct{ arg string }

func (b *stubBot) ID() string    { return "stub" }
func (b *stubBot) Title() string { return "Stub " + b.arg }
func (b *stubBot) Command(context.Context, core.SensorSnapshot) (core.MoveCommand, error) {
	return core.MoveCommand{}, nil
}

func TestRegisterCreate(t *testing.T) {
	Register(BotInfo{ID: "test-stub", Title: "Stub"}, func(opts Options) (Bot, error) {
		return &stubBot{arg: opts.Arg}, nil
	})

	if !Exists("test-stub") {
		t.Fatal("Exists(test-stub) = false")
	}
	b, err := Create("test-stub", Options{Arg: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Title() != "Stub x" {
		t.Errorf("Title() = %q, expected %q", b.Title(), "Stub x")
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-stub" {
			found = true
		}
	}
	if !found {
		t.Error("List() should include test-stub")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(Options) (Bot, error) { return &stubBot{}, nil }
	Register(BotInfo{ID: "test-dup"}, f)

	defer func() {
		if recover() == nil {
			t.Error("second Register should panic")
		}
	}()
	Register(BotInfo{ID: "test-dup"}, f)
}

func TestCreateErrors(t *testing.T) {
	if _, err := Create("test-nope", Options{}); err == nil {
		t.Error("expected error for unknown bot")
	}

	Register(BotInfo{ID: "test-arg", NeedsArg: true}, func(Options) (Bot, error) { return &stubBot{}, nil })
	if _, err := Create("test-arg", Options{}); err == nil || !strings.Contains(err.Error(), "argument") {
		t.Errorf("Create without arg error = %v", err)
	}

	boom := errors.New("boom")
	Register(BotInfo{ID: "test-fail"}, func(Options) (Bot, error) { return nil, boom })
	if _, err := Create("test-fail", Options{}); !errors.Is(err, boom) {
		t.Errorf("Create error = %v, expected to wrap boom", err)
	}
}
