package core_test

import (
	"testing"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

func placeAll(g *core.Grid, reqs []core.MoveRequest) {
	for _, r := range reqs {
		g.PutTank(r.From, r.Tank)
	}
}

func damageByTank(res core.Resolution) map[core.TankID]int {
	out := make(map[core.TankID]int)
	for _, h := range res.Hits {
		out[h.Tank] += h.Damage
	}
	return out
}

func TestResolveWallCollision(t *testing.T) {
	g := openGrid(t, 5)
	reqs := []core.MoveRequest{{Tank: 0, From: core.C(1, 1), Dir: core.DirNorth}}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	if res.Moved[0] {
		t.Error("move into a wall should be cancelled")
	}
	if res.Dest[0] != core.C(1, 1) {
		t.Errorf("Dest = %v, expected (1,1)", res.Dest[0])
	}
	if len(res.Hits) != 1 || res.Hits[0].Kind != core.CollisionWall || res.Hits[0].Damage != 100 {
		t.Errorf("Hits = %+v, expected one wall hit of 100", res.Hits)
	}
}

func TestResolveStationaryTankIsObstacle(t *testing.T) {
	g := openGrid(t, 5)
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 1), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1)},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	if res.Moved[0] {
		t.Error("move into a stationary tank should be cancelled")
	}
	damage := damageByTank(res)
	if damage[0] != 100 || damage[1] != 0 {
		t.Errorf("damage = %v, expected only tank 0 to take 100", damage)
	}
}

func TestResolveCrossCollision(t *testing.T) {
	g := gridFrom(t,
		"#####",
		"#.H.#",
		"#...#",
		"#...#",
		"#####",
	)
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 1), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1), Dir: core.DirWest},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	if res.Moved[0] || res.Moved[1] {
		t.Error("head-on swap should cancel both moves")
	}
	if len(res.Hits) != 2 {
		t.Fatalf("Hits = %+v, expected two", res.Hits)
	}
	for _, h := range res.Hits {
		if h.Kind != core.CollisionCross {
			t.Errorf("hit kind = %v, expected cross", h.Kind)
		}
		if h.ChargerKill != (h.Tank == 1) {
			t.Errorf("tank %d ChargerKill = %v", h.Tank, h.ChargerKill)
		}
	}
}

func TestResolvePerpendicularMeet(t *testing.T) {
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 2), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1), Dir: core.DirSouth},
	}

	testCases := []struct {
		name      string
		symmetric bool
		expected  map[core.TankID]int
	}{
		{"classic", false, map[core.TankID]int{1: 100}},
		{"symmetric", true, map[core.TankID]int{0: 100, 1: 100}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := openGrid(t, 5)
			placeAll(g, reqs)
			rules := core.DefaultRules()
			rules.SymmetricMeetDamage = tc.symmetric

			res := core.NewCollisionResolver(g, rules).Resolve(reqs)

			if res.Moved[0] || res.Moved[1] {
				t.Error("meet should cancel both moves")
			}
			damage := damageByTank(res)
			if len(damage) != len(tc.expected) {
				t.Fatalf("damage = %v, expected %v", damage, tc.expected)
			}
			for id, d := range tc.expected {
				if damage[id] != d {
					t.Errorf("tank %d damage = %d, expected %d", id, damage[id], d)
				}
			}
		})
	}
}

func TestResolveThreeWayMeetScalesDamage(t *testing.T) {
	g := openGrid(t, 5)
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 2), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1), Dir: core.DirSouth},
		{Tank: 2, From: core.C(3, 2), Dir: core.DirWest},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	damage := damageByTank(res)
	for id := core.TankID(0); id < 3; id++ {
		if res.Moved[id] {
			t.Errorf("tank %d should not move", id)
		}
		if damage[id] != 200 {
			t.Errorf("tank %d damage = %d, expected 200", id, damage[id])
		}
	}
}

func TestResolveCancelledMoverBlocksFollower(t *testing.T) {
	g := openGrid(t, 6)
	// 0 follows 1, which runs into stationary 2. 1 falls back onto its own
	// cell, which 0 was about to enter.
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 1), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1), Dir: core.DirEast},
		{Tank: 2, From: core.C(3, 1)},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	for i := range reqs {
		if res.Moved[i] {
			t.Errorf("tank %d should not move", i)
		}
		if res.Dest[i] != reqs[i].From {
			t.Errorf("tank %d Dest = %v, expected %v", i, res.Dest[i], reqs[i].From)
		}
	}
	// 1 pays once for running into 2; 0 pays for running into 1.
	damage := damageByTank(res)
	if damage[0] != 100 || damage[1] != 100 || damage[2] != 0 {
		t.Errorf("damage = %v, expected 100/100/0", damage)
	}
}

func TestResolveReturnedTankNotChargedTwice(t *testing.T) {
	g := openGrid(t, 7)
	// 0 and 1 cross head-on and both fall back; 2 drives down into 1's cell.
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 2), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 2), Dir: core.DirWest},
		{Tank: 2, From: core.C(2, 1), Dir: core.DirSouth},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	for i := range reqs {
		if res.Moved[i] {
			t.Errorf("tank %d should not move", i)
		}
	}
	damage := damageByTank(res)
	if damage[0] != 100 || damage[1] != 100 || damage[2] != 100 {
		t.Errorf("damage = %v, expected 100 each", damage)
	}
}

func TestResolveTrainAdvances(t *testing.T) {
	g := openGrid(t, 6)
	reqs := []core.MoveRequest{
		{Tank: 0, From: core.C(1, 1), Dir: core.DirEast},
		{Tank: 1, From: core.C(2, 1), Dir: core.DirEast},
	}
	placeAll(g, reqs)

	res := core.NewCollisionResolver(g, core.DefaultRules()).Resolve(reqs)

	if !res.Moved[0] || !res.Moved[1] {
		t.Fatalf("Moved = %v, expected both", res.Moved)
	}
	if res.Dest[0] != core.C(2, 1) || res.Dest[1] != core.C(3, 1) {
		t.Errorf("Dest = %v", res.Dest)
	}
	if len(res.Hits) != 0 {
		t.Errorf("Hits = %+v, expected none", res.Hits)
	}
}
