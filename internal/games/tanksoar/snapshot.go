package tanksoar

import "github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"

// TankView is a copy of one tank's visible state.
type TankView struct {
	Name     string
	Location core.Coord
	Facing   core.Direction
	Health   int
	Energy   int
	Missiles int
	Points   int
}

// Snapshot is a copy of the match state for comparison and display.
type Snapshot struct {
	Tick     uint64
	Tanks    []TankView
	Missiles int
	Packs    int
}

// Snapshot returns the current match state. It is empty before a
// successful Reset.
func (g *Game) Snapshot() Snapshot {
	if g.match == nil {
		return Snapshot{}
	}
	w := g.match.World()
	snap := Snapshot{
		Tick:     w.Tick(),
		Missiles: len(w.Missiles()),
		Packs:    w.Grid().MissilePacks(),
	}
	for _, t := range w.Tanks() {
		snap.Tanks = append(snap.Tanks, TankView{
			Name:     t.Name,
			Location: t.Location,
			Facing:   t.Facing,
			Health:   t.Health,
			Energy:   t.Energy,
			Missiles: t.Missiles,
			Points:   t.Points,
		})
	}
	return snap
}
