package maps_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/maps"
)

// getTestdataPath returns path to testdata/maps.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "maps")
}

func TestBuiltinMapsAreValid(t *testing.T) {
	all, err := maps.Builtin()
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if len(all) < 3 {
		t.Fatalf("expected at least 3 built-in maps, got %d", len(all))
	}
	for _, m := range all {
		g, err := m.NewGrid()
		if err != nil {
			t.Errorf("%s: NewGrid failed: %v", m.ID, err)
			continue
		}
		for i, s := range m.Slots {
			if !g.Enterable(s.Location) {
				t.Errorf("%s: slot %d at %v is not enterable", m.ID, i, s.Location)
			}
		}
	}
}

func TestLoaderLoadAllSkipsInvalid(t *testing.T) {
	loader := maps.NewLoader(getTestdataPath())

	all, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("maps not sorted: %s >= %s", all[i-1].ID, all[i].ID)
		}
	}
	ids := make(map[string]maps.Map)
	for _, m := range all {
		ids[m.ID] = m
	}
	if _, ok := ids["leaky"]; ok {
		t.Error("map with an open perimeter should be skipped")
	}
	if _, ok := ids["glyph"]; ok {
		t.Error("map with an unknown glyph should be skipped")
	}
	if ids["arena"].Name != "Arena Override" {
		t.Errorf("arena name = %q, expected the directory override", ids["arena"].Name)
	}
	if _, ok := ids["duel"]; !ok {
		t.Error("built-in duel should still be listed")
	}
}

func TestLoaderLoadPit(t *testing.T) {
	loader := maps.NewLoader(getTestdataPath())

	m, err := loader.LoadByID("pit")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if m.Size != 5 {
		t.Errorf("Size = %d, expected 5", m.Size)
	}
	if len(m.Packs) != 1 || m.Packs[0] != core.C(2, 1) {
		t.Errorf("Packs = %v, expected [(2,1)]", m.Packs)
	}
	if m.Kinds[2][2] != core.CellEnergyCharger {
		t.Errorf("(2,2) = %v, expected energy charger", m.Kinds[2][2])
	}
	if m.Metadata["author"] != "test" {
		t.Errorf("metadata author = %q", m.Metadata["author"])
	}
	if len(m.Slots) != 2 || m.Slots[1].Facing != core.DirWest {
		t.Errorf("Slots = %+v", m.Slots)
	}
	if got := m.Render()[1]; got != "#.m.#" {
		t.Errorf("Render()[1] = %q, expected %q", got, "#.m.#")
	}
}

func TestLoaderErrors(t *testing.T) {
	loader := maps.NewLoader(getTestdataPath())

	if _, err := loader.LoadByID("missing"); !errors.Is(err, maps.ErrNotFound) {
		t.Errorf("LoadByID(missing) error = %v, expected ErrNotFound", err)
	}
	if _, err := loader.LoadFile(filepath.Join(getTestdataPath(), "leaky.yaml")); !errors.Is(err, core.ErrOpenPerimeter) {
		t.Errorf("LoadFile(leaky) error = %v, expected ErrOpenPerimeter", err)
	}
}

func TestLoaderMissingRootUsesBuiltins(t *testing.T) {
	loader := maps.NewLoader(filepath.Join(t.TempDir(), "nope"))

	ids, err := loader.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) < 3 {
		t.Errorf("ListIDs() = %v, expected the built-ins", ids)
	}
}

func TestTankSpecs(t *testing.T) {
	loader := maps.NewLoader(getTestdataPath())
	m, err := loader.LoadByID("pit")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}

	specs := m.TankSpecs([]core.Entity{{}, {Name: "bob", Color: "green"}, {}})

	if specs[0].Name != "lefty" || specs[0].Color != "red" || !specs[0].Placed {
		t.Errorf("spec 0 = %+v", specs[0])
	}
	if specs[1].Name != "bob" || specs[1].Color != "green" || specs[1].Location != core.C(3, 3) {
		t.Errorf("spec 1 = %+v", specs[1])
	}
	if specs[2].Placed || specs[2].Name != "tank-3" || specs[2].Color != maps.DefaultColors[2] {
		t.Errorf("spec 2 = %+v", specs[2])
	}
}
