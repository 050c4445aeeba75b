package core

import (
	"fmt"
	"sort"
)

// CollisionKind tells which resolution pass produced a hit.
type CollisionKind uint8

const (
	CollisionWall CollisionKind = iota
	CollisionCross
	CollisionMeet
)

// String returns the collision kind name.
func (k CollisionKind) String() string {
	switch k {
	case CollisionWall:
		return "wall"
	case CollisionCross:
		return "cross"
	case CollisionMeet:
		return "meet"
	default:
		return "unknown"
	}
}

// MoveRequest is one tank's position and requested move for resolution.
// Dir is DirNone for a tank that stays put.
type MoveRequest struct {
	Tank TankID
	From Coord
	Dir  Direction
}

// CollisionHit is damage owed to one tank by one collision.
type CollisionHit struct {
	Tank        TankID
	Kind        CollisionKind
	Cell        Coord // Contested cell
	Damage      int
	ChargerKill bool // Victim stood on a charger: health goes to zero
}

// Resolution is the outcome of resolving a tick's simultaneous moves.
// Dest and Moved are indexed like the request slice.
type Resolution struct {
	Dest  []Coord
	Moved []bool
	Hits  []CollisionHit
}

// CollisionResolver reconciles simultaneous tank moves against walls and
// each other. It does not mutate tanks or the grid.
type CollisionResolver struct {
	grid  *Grid
	rules Rules
}

// NewCollisionResolver creates a resolver over g.
func NewCollisionResolver(g *Grid, rules Rules) *CollisionResolver {
	return &CollisionResolver{grid: g, rules: rules}
}

// Resolve runs the wall, cross and meet passes in that order.
func (r *CollisionResolver) Resolve(reqs []MoveRequest) Resolution {
	n := len(reqs)
	res := Resolution{
		Dest:  make([]Coord, n),
		Moved: make([]bool, n),
	}
	byFrom := make(map[Coord]int, n)
	for i, req := range reqs {
		byFrom[req.From] = i
		res.Dest[i] = req.From
	}

	cancel := func(i int) {
		res.Moved[i] = false
		res.Dest[i] = reqs[i].From
	}

	// Wall and stationary-tank pass.
	for i, req := range reqs {
		if !req.Dir.Valid() {
			continue
		}
		dest := req.From.Step(req.Dir)
		occ, occupied := byFrom[dest]
		if r.grid.IsWall(dest) || (occupied && !reqs[occ].Dir.Valid()) {
			res.Hits = append(res.Hits, CollisionHit{
				Tank:   req.Tank,
				Kind:   CollisionWall,
				Cell:   dest,
				Damage: r.rules.CollisionDamage,
			})
			continue
		}
		res.Dest[i] = dest
		res.Moved[i] = true
	}

	// Cross pass: two tanks swapping cells head-on.
	for i, req := range reqs {
		if !res.Moved[i] {
			continue
		}
		j, ok := byFrom[res.Dest[i]]
		if !ok || !res.Moved[j] || reqs[j].Dir != req.Dir.Backward() {
			continue
		}
		cancel(i)
		cancel(j)
		for _, k := range [2]int{i, j} {
			res.Hits = append(res.Hits, CollisionHit{
				Tank:        reqs[k].Tank,
				Kind:        CollisionCross,
				Cell:        reqs[k].From.Step(reqs[k].Dir),
				Damage:      r.rules.CollisionDamage,
				ChargerKill: r.onCharger(reqs[k].From),
			})
		}
	}

	// Meet pass, iterated to a fixed point: a cancelled mover re-occupies its
	// own cell, which may in turn collide with a third tank.
	groups := make(map[Coord][]int)
	var groupOrder []Coord
	for iter := 0; ; iter++ {
		if iter > n+1 {
			panic(fmt.Sprintf("tanksoar: meet resolution did not settle after %d passes", iter))
		}
		byDest := make(map[Coord][]int, n)
		for i := range reqs {
			byDest[res.Dest[i]] = append(byDest[res.Dest[i]], i)
		}
		cells := make([]Coord, 0, len(byDest))
		for c, members := range byDest {
			if len(members) > 1 {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			break
		}
		sortCoords(cells)
		changed := false
		for _, c := range cells {
			if _, seen := groups[c]; !seen {
				groupOrder = append(groupOrder, c)
			}
			groups[c] = mergeMembers(groups[c], byDest[c])
			for _, i := range byDest[c] {
				if res.Moved[i] {
					cancel(i)
					changed = true
				}
			}
		}
		if !changed {
			panic(fmt.Sprintf("tanksoar: stationary tanks share cells %v", cells))
		}
	}

	for _, c := range groupOrder {
		members := groups[c]
		damage := r.rules.CollisionDamage * (len(members) - 1)
		victims := members
		if !r.rules.SymmetricMeetDamage && r.perpendicularPair(reqs, members, c) {
			// Classic rules: only the later tank of a two-way perpendicular
			// meet is marked colliding and pays.
			victims = members[1:]
		}
		for _, i := range victims {
			// A tank back on its own cell is the obstacle here, not a mover;
			// it already paid for its own collision.
			if !reqs[i].Dir.Valid() || reqs[i].From.Step(reqs[i].Dir) != c {
				continue
			}
			res.Hits = append(res.Hits, CollisionHit{
				Tank:        reqs[i].Tank,
				Kind:        CollisionMeet,
				Cell:        c,
				Damage:      damage,
				ChargerKill: r.onCharger(reqs[i].From),
			})
		}
	}
	return res
}

// perpendicularPair reports a group of exactly two tanks that both tried to
// enter c from perpendicular directions.
func (r *CollisionResolver) perpendicularPair(reqs []MoveRequest, members []int, c Coord) bool {
	if len(members) != 2 {
		return false
	}
	a, b := reqs[members[0]], reqs[members[1]]
	if !a.Dir.Valid() || !b.Dir.Valid() {
		return false
	}
	if a.From.Step(a.Dir) != c || b.From.Step(b.Dir) != c {
		return false
	}
	return a.Dir != b.Dir && a.Dir != b.Dir.Backward()
}

func (r *CollisionResolver) onCharger(c Coord) bool {
	return r.grid.At(c).Kind.IsCharger()
}

// mergeMembers adds new indices to a sorted member list.
func mergeMembers(have, add []int) []int {
	for _, i := range add {
		found := false
		for _, h := range have {
			if h == i {
				found = true
				break
			}
		}
		if !found {
			have = append(have, i)
		}
	}
	sort.Ints(have)
	return have
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Y != cs[j].Y {
			return cs[i].Y < cs[j].Y
		}
		return cs[i].X < cs[j].X
	})
}
