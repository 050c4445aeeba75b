package core_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// stepN runs n ticks with the given commands on the first and no-ops after.
func stepN(w *core.World, n int, first []core.MoveCommand) core.StepResult {
	res := w.Step(first)
	for i := 1; i < n; i++ {
		res = w.Step(nil)
	}
	return res
}

func TestMissileHitDamagesHealth(t *testing.T) {
	w := newWorld(t, openGrid(t, 7), quietRules(),
		tankAt("alpha", "red", 1, 3, core.DirEast),
		tankAt("bravo", "blue", 3, 3, core.DirWest),
	)

	// Launch, then the missile needs a full phase cycle to threaten (3,3).
	res := w.Step([]core.MoveCommand{{Fire: true}})
	if got := len(w.Missiles()); got != 1 {
		t.Fatalf("missiles in flight = %d, expected 1", got)
	}
	if !res.Snapshots[1].Incoming.Forward {
		t.Error("bravo should see the missile incoming from the front")
	}
	if got := res.Snapshots[0].Missiles; got != 14 {
		t.Errorf("alpha missiles = %d, expected 14", got)
	}

	res = stepN(w, 2, nil)

	bravo := w.Tanks()[1]
	if bravo.Health != 600 {
		t.Errorf("bravo health = %d, expected 600", bravo.Health)
	}
	if alpha := w.Tanks()[0]; alpha.Points != 2 || alpha.Hits != 1 {
		t.Errorf("alpha points/hits = %d/%d, expected 2/1", alpha.Points, alpha.Hits)
	}
	if len(res.Events.MissileHits) != 1 {
		t.Errorf("MissileHits = %+v, expected one", res.Events.MissileHits)
	}
	if len(w.Missiles()) != 0 {
		t.Error("missile should be removed after the hit")
	}
}

func TestTankDrivesIntoMissile(t *testing.T) {
	tests := []struct {
		name  string
		start int // bravo's starting column on row 3
		wait  int // idle ticks after the launch before bravo moves
		cell  core.Coord
	}{
		// Missile sits on (2,3) after launch; bravo drives onto it.
		{"onto missile", 3, 0, core.C(2, 3)},
		// Missile is on (2,3) in its last phase; bravo drives into its next cell.
		{"into next cell", 4, 2, core.C(3, 3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t, openGrid(t, 7), quietRules(),
				tankAt("alpha", "red", 1, 3, core.DirEast),
				tankAt("bravo", "blue", tc.start, 3, core.DirWest),
			)

			w.Step([]core.MoveCommand{{Fire: true}})
			for i := 0; i < tc.wait; i++ {
				if res := w.Step(nil); len(res.Events.MissileHits) != 0 {
					t.Fatalf("tick %d: unexpected hit %+v", res.Tick, res.Events.MissileHits)
				}
			}
			res := w.Step([]core.MoveCommand{{}, {Move: core.DirWest}})

			bravo := w.Tanks()[1]
			if bravo.Location != tc.cell {
				t.Errorf("bravo location = %v, expected %v", bravo.Location, tc.cell)
			}
			if bravo.Health != 600 {
				t.Errorf("bravo health = %d, expected 600", bravo.Health)
			}
			if alpha := w.Tanks()[0]; alpha.Hits != 1 {
				t.Errorf("alpha hits = %d, expected 1", alpha.Hits)
			}
			if len(res.Events.MissileHits) != 1 || res.Events.MissileHits[0].Victim != 1 {
				t.Errorf("MissileHits = %+v, expected one on bravo", res.Events.MissileHits)
			}
			if len(w.Missiles()) != 0 {
				t.Errorf("missiles in flight = %d, expected 0", len(w.Missiles()))
			}
		})
	}
}

func TestMissileHitShieldedDrainsEnergy(t *testing.T) {
	w := newWorld(t, openGrid(t, 7), quietRules(),
		tankAt("alpha", "red", 1, 3, core.DirEast),
		tankAt("bravo", "blue", 3, 3, core.DirWest),
	)

	w.Step([]core.MoveCommand{{Fire: true}, {ShieldSwitch: on()}})
	stepN(w, 2, nil)

	bravo := w.Tanks()[1]
	if bravo.Health != 1000 {
		t.Errorf("bravo health = %d, expected 1000", bravo.Health)
	}
	// 3 ticks of shield upkeep plus one 250 hit.
	if bravo.Energy != 1000-3*20-250 {
		t.Errorf("bravo energy = %d, expected %d", bravo.Energy, 1000-3*20-250)
	}
}

func TestMissileHitOnChargerKills(t *testing.T) {
	g := gridFrom(t,
		"#######",
		"#.....#",
		"#.....#",
		"#..H..#",
		"#.....#",
		"#.....#",
		"#######",
	)
	w := newWorld(t, g, quietRules(),
		tankAt("alpha", "red", 1, 3, core.DirEast),
		tankAt("bravo", "blue", 3, 3, core.DirWest),
	)

	w.Step([]core.MoveCommand{{Fire: true}, {ShieldSwitch: on()}})
	res := stepN(w, 2, nil)

	alpha, bravo := w.Tanks()[0], w.Tanks()[1]
	if len(res.Events.Kills) != 1 || res.Events.Kills[0].Killer != alpha.ID {
		t.Fatalf("Kills = %+v, expected bravo killed by alpha", res.Events.Kills)
	}
	if alpha.Points != 2+3 {
		t.Errorf("alpha points = %d, expected 5", alpha.Points)
	}
	if bravo.Points != -2 {
		t.Errorf("bravo points = %d, expected -2", bravo.Points)
	}
	if !res.Snapshots[1].Resurrect {
		t.Error("bravo snapshot should report resurrect")
	}
	if bravo.Health != 1000 || bravo.Missiles != 15 || bravo.ShieldOn {
		t.Errorf("bravo not restored: health %d missiles %d shield %v", bravo.Health, bravo.Missiles, bravo.ShieldOn)
	}
	if w.Grid().At(bravo.Location).Kind != core.CellOpen {
		t.Errorf("bravo respawned on %v", w.Grid().At(bravo.Location).Kind)
	}

	next := w.Step(nil)
	if next.Snapshots[1].Resurrect {
		t.Error("resurrect should clear on the following tick")
	}
}

func TestRespawnSkipsMissilePacks(t *testing.T) {
	// Every free open cell but (2,3) holds a pack.
	g := gridFrom(t,
		"#######",
		"#mmmmm#",
		"#mmmmm#",
		"#..Hmm#",
		"#mmmmm#",
		"#mmmmm#",
		"#######",
	)
	w := newWorld(t, g, quietRules(),
		tankAt("alpha", "red", 1, 3, core.DirEast),
		tankAt("bravo", "blue", 3, 3, core.DirWest),
	)
	packs := w.Grid().MissilePacks()

	w.Step([]core.MoveCommand{{Fire: true}})
	res := stepN(w, 2, nil)

	if len(res.Events.Kills) != 1 {
		t.Fatalf("Kills = %+v, expected bravo killed", res.Events.Kills)
	}
	bravo := w.Tanks()[1]
	if bravo.Location != core.C(2, 3) {
		t.Errorf("bravo respawned at %v, expected (2,3)", bravo.Location)
	}
	if bravo.Missiles != 15 {
		t.Errorf("bravo missiles = %d, expected 15", bravo.Missiles)
	}
	if got := w.Grid().MissilePacks(); got != packs {
		t.Errorf("missile packs = %d, expected %d", got, packs)
	}
}

func TestFireWithoutMissilesWarns(t *testing.T) {
	rules := quietRules()
	rules.InitialMissiles = 0
	w := newWorld(t, openGrid(t, 5), rules, tankAt("alpha", "red", 1, 1, core.DirEast))

	res := w.Step([]core.MoveCommand{{Fire: true}})

	if len(w.Missiles()) != 0 {
		t.Error("no missile should launch")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != core.WarnNoMissiles {
		t.Errorf("Warnings = %v, expected no_missiles", res.Warnings)
	}
}

func TestMoveAndRotateRotateWins(t *testing.T) {
	w := newWorld(t, openGrid(t, 5), quietRules(), tankAt("alpha", "red", 2, 2, core.DirNorth))

	res := w.Step([]core.MoveCommand{{Move: core.DirNorth, Rotate: core.RotateRight}})

	alpha := w.Tanks()[0]
	if alpha.Location != core.C(2, 2) {
		t.Errorf("location = %v, expected (2,2)", alpha.Location)
	}
	if alpha.Facing != core.DirEast {
		t.Errorf("facing = %v, expected east", alpha.Facing)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != core.WarnMoveAndRotate {
		t.Errorf("Warnings = %v, expected move_and_rotate", res.Warnings)
	}
}

func TestMissileExplodesBesideWall(t *testing.T) {
	w := newWorld(t, openGrid(t, 5), quietRules(), tankAt("alpha", "red", 1, 1, core.DirEast))

	var exploded []core.Coord
	res := w.Step([]core.MoveCommand{{Fire: true}})
	for i := 0; i < 10 && len(exploded) == 0; i++ {
		exploded = res.Events.Explosions
		if len(exploded) == 0 {
			res = w.Step(nil)
		}
	}

	if len(exploded) != 1 {
		t.Fatalf("explosions = %v, expected one", exploded)
	}
	at := exploded[0]
	if w.Grid().IsWall(at) {
		t.Errorf("explosion at %v is inside a wall", at)
	}
	if !w.Grid().IsWall(at.Step(core.DirEast)) {
		t.Errorf("explosion at %v is not beside the wall", at)
	}
	if len(w.Missiles()) != 0 {
		t.Error("missile should be destroyed by the wall")
	}
}

func TestWallCollisionDamage(t *testing.T) {
	w := newWorld(t, openGrid(t, 5), quietRules(), tankAt("alpha", "red", 1, 1, core.DirNorth))

	res := w.Step([]core.MoveCommand{{Move: core.DirNorth}})

	if got := w.Tanks()[0].Health; got != 900 {
		t.Errorf("health = %d, expected 900", got)
	}
	if len(res.Events.Collisions) != 1 {
		t.Errorf("Collisions = %+v, expected one", res.Events.Collisions)
	}
	if !res.Snapshots[0].Blocked.Forward || !res.Snapshots[0].Blocked.Left {
		t.Errorf("Blocked = %+v, expected forward and left", res.Snapshots[0].Blocked)
	}
}

func TestMissilePackPickup(t *testing.T) {
	g := gridFrom(t,
		"#####",
		"#.m.#",
		"#...#",
		"#...#",
		"#####",
	)
	w := newWorld(t, g, quietRules(), tankAt("alpha", "red", 1, 1, core.DirEast))

	res := w.Step([]core.MoveCommand{{Move: core.DirEast}})

	if got := w.Tanks()[0].Missiles; got != 15+7 {
		t.Errorf("missiles = %d, expected 22", got)
	}
	if len(res.Events.Pickups) != 1 {
		t.Errorf("Pickups = %v, expected one", res.Events.Pickups)
	}
	if g.MissilePacks() != 0 {
		t.Errorf("MissilePacks() = %d, expected 0", g.MissilePacks())
	}
}

func TestChargersRefill(t *testing.T) {
	g := gridFrom(t,
		"#####",
		"#E.H#",
		"#...#",
		"#...#",
		"#####",
	)
	w := newWorld(t, g, quietRules(),
		tankAt("alpha", "red", 1, 1, core.DirSouth),
		tankAt("bravo", "blue", 3, 1, core.DirSouth),
	)
	alpha, bravo := w.Tanks()[0], w.Tanks()[1]
	alpha.Energy = 100
	bravo.Health = 100

	w.Step(nil)

	if alpha.Energy != 350 {
		t.Errorf("alpha energy = %d, expected 350", alpha.Energy)
	}
	if bravo.Health != 350 {
		t.Errorf("bravo health = %d, expected 350", bravo.Health)
	}
}

func TestInvalidPlacementFallsBack(t *testing.T) {
	specs := []core.TankSpec{
		tankAt("alpha", "red", 0, 0, core.DirNorth),
		tankAt("bravo", "blue", 2, 2, core.DirNorth),
		tankAt("charlie", "green", 2, 2, core.DirNorth),
	}
	w, warnings, err := core.NewWorld(openGrid(t, 5), specs, quietRules(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, expected two placement warnings", warnings)
	}
	for _, wn := range warnings {
		if wn.Code != core.WarnPlacement {
			t.Errorf("warning code = %s, expected invalid_placement", wn.Code)
		}
	}
	if got := w.Grid().TankCount(); got != 3 {
		t.Errorf("TankCount() = %d, expected 3", got)
	}
}

func TestNewWorldErrors(t *testing.T) {
	if _, _, err := core.NewWorld(openGrid(t, 5), nil, quietRules(), rand.New(rand.NewSource(1))); err != core.ErrNoTanks {
		t.Errorf("err = %v, expected ErrNoTanks", err)
	}
	specs := []core.TankSpec{tankAt("alpha", "red", 1, 1, core.DirNorth)}
	if _, _, err := core.NewWorld(openGrid(t, 5), specs, quietRules(), nil); err != core.ErrNoRNG {
		t.Errorf("err = %v, expected ErrNoRNG", err)
	}
}

func TestPointsToWinEndsGame(t *testing.T) {
	rules := quietRules()
	rules.PointsToWin = 2
	w := newWorld(t, openGrid(t, 7), rules,
		tankAt("alpha", "red", 1, 3, core.DirEast),
		tankAt("bravo", "blue", 3, 3, core.DirWest),
	)

	w.Step([]core.MoveCommand{{Fire: true}})
	res := stepN(w, 2, nil)

	if !res.Done || !w.Done() {
		t.Fatal("game should be over once alpha scores 2")
	}
	if id, ok := w.Winner(); !ok || id != 0 {
		t.Errorf("Winner() = %d,%v, expected 0,true", id, ok)
	}
	if after := w.Step(nil); after.Tick != res.Tick {
		t.Errorf("Step after done advanced tick to %d", after.Tick)
	}
}

// randomCommand draws an arbitrary command, including invalid combinations.
func randomCommand(rng *rand.Rand) core.MoveCommand {
	var cmd core.MoveCommand
	switch rng.Intn(4) {
	case 0:
		cmd.Move = core.Directions[rng.Intn(4)]
	case 1:
		cmd.Rotate = core.Rotation(1 + rng.Intn(2))
	case 2:
		cmd.Move = core.Directions[rng.Intn(4)]
		cmd.Rotate = core.RotateLeft
	}
	cmd.Fire = rng.Intn(3) == 0
	if rng.Intn(5) == 0 {
		cmd.ShieldSwitch = on()
		if rng.Intn(2) == 0 {
			cmd.ShieldSwitch = off()
		}
	}
	if rng.Intn(5) == 0 {
		cmd.RadarSwitch = on()
		cmd.RadarPower = power(rng.Intn(20) - 2)
	}
	return cmd
}

func runRandomMatch(t *testing.T, seed int64, ticks int, check func(*core.World)) []core.StepResult {
	t.Helper()
	g := gridFrom(t,
		"##########",
		"#....#...#",
		"#.E..#.m.#",
		"#........#",
		"#..##....#",
		"#........#",
		"#.m....H.#",
		"#...#....#",
		"#........#",
		"##########",
	)
	specs := []core.TankSpec{
		tankAt("alpha", "red", 1, 1, core.DirEast),
		tankAt("bravo", "blue", 8, 1, core.DirSouth),
		tankAt("charlie", "green", 1, 8, core.DirNorth),
		tankAt("delta", "yellow", 8, 8, core.DirWest),
	}
	rules := core.DefaultRules()
	rules.PointsToWin = 0
	w, _, err := core.NewWorld(g, specs, rules, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	agents := rand.New(rand.NewSource(seed + 1))
	var results []core.StepResult
	for i := 0; i < ticks; i++ {
		cmds := make([]core.MoveCommand, len(specs))
		for j := range cmds {
			cmds[j] = randomCommand(agents)
		}
		results = append(results, w.Step(cmds))
		if check != nil {
			check(w)
		}
	}
	return results
}

func TestDeterminism(t *testing.T) {
	a := runRandomMatch(t, 42, 300, nil)
	b := runRandomMatch(t, 42, 300, nil)

	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("tick %d diverged:\n%+v\n%+v", i+1, a[i].Snapshots, b[i].Snapshots)
		}
	}
}

func TestInvariantsHoldUnderRandomPlay(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		runRandomMatch(t, seed, 400, func(w *core.World) {
			g := w.Grid()
			if got := g.TankCount(); got != len(w.Tanks()) {
				t.Fatalf("seed %d tick %d: TankCount() = %d, expected %d", seed, w.Tick(), got, len(w.Tanks()))
			}
			for _, tank := range w.Tanks() {
				if g.TankAt(tank.Location) != tank.ID {
					t.Fatalf("seed %d tick %d: tank %d not on its cell %v", seed, w.Tick(), tank.ID, tank.Location)
				}
				if tank.Health <= 0 || tank.Health > 1000 {
					t.Fatalf("seed %d: tank %d health %d out of range", seed, tank.ID, tank.Health)
				}
				if tank.Energy < 0 || tank.Energy > 1000 {
					t.Fatalf("seed %d: tank %d energy %d out of range", seed, tank.ID, tank.Energy)
				}
				if tank.Missiles < 0 {
					t.Fatalf("seed %d: tank %d has %d missiles", seed, tank.ID, tank.Missiles)
				}
			}
			for _, m := range w.Missiles() {
				if g.IsWall(m.Location) {
					t.Fatalf("seed %d: missile inside wall at %v", seed, m.Location)
				}
			}
			if g.MissilePacks() > w.Rules().MaxMissilePacks {
				t.Fatalf("seed %d: %d packs exceed the maximum", seed, g.MissilePacks())
			}
		})
	}
}
