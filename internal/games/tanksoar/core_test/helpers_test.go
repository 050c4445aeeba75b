package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// gridFrom builds a grid from ASCII rows:
// '#' wall, '.' open, 'E' energy charger, 'H' health charger, 'm' missile pack.
func gridFrom(t *testing.T, rows ...string) *core.Grid {
	t.Helper()
	kinds := make([][]core.CellKind, len(rows))
	var packs []core.Coord
	for y, row := range rows {
		kinds[y] = make([]core.CellKind, len(row))
		for x, ch := range row {
			switch ch {
			case '#':
				kinds[y][x] = core.CellWall
			case 'E':
				kinds[y][x] = core.CellEnergyCharger
			case 'H':
				kinds[y][x] = core.CellHealthCharger
			case 'm':
				kinds[y][x] = core.CellOpen
				packs = append(packs, core.C(x, y))
			default:
				kinds[y][x] = core.CellOpen
			}
		}
	}
	g, err := core.NewGrid(kinds, packs)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

// openGrid returns an n x n grid with a wall border and an open interior.
func openGrid(t *testing.T, n int) *core.Grid {
	t.Helper()
	rows := make([]string, n)
	for y := 0; y < n; y++ {
		row := make([]byte, n)
		for x := 0; x < n; x++ {
			if x == 0 || y == 0 || x == n-1 || y == n-1 {
				row[x] = '#'
			} else {
				row[x] = '.'
			}
		}
		rows[y] = string(row)
	}
	return gridFrom(t, rows...)
}

// quietRules disables random pack spawns so scenarios stay predictable.
func quietRules() core.Rules {
	r := core.DefaultRules()
	r.MissilePackSpawnChance = 0
	r.PointsToWin = 0
	return r
}

func tankAt(name, color string, x, y int, facing core.Direction) core.TankSpec {
	return core.TankSpec{
		Entity:   core.Entity{Name: name, Color: color},
		Location: core.C(x, y),
		Facing:   facing,
		Placed:   true,
	}
}

func newWorld(t *testing.T, g *core.Grid, rules core.Rules, specs ...core.TankSpec) *core.World {
	t.Helper()
	w, warnings, err := core.NewWorld(g, specs, rules, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("NewWorld warnings: %v", warnings)
	}
	return w
}

func on() *bool  { v := true; return &v }
func off() *bool { v := false; return &v }
func power(n int) *int {
	return &n
}
