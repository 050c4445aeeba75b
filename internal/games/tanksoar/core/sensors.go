package core

// SensorSnapshot is everything one tank perceives at the end of a tick.
// It is rebuilt from scratch every tick.
type SensorSnapshot struct {
	Tank  TankID
	Name  string
	Color string

	Location Coord
	Facing   Direction
	Health   int
	Energy   int
	ShieldOn bool
	Missiles int
	Points   int

	Blocked  Relatives
	Incoming Relatives
	RWaves   Relatives

	SmellColor    string
	SmellDistance int
	Sound         Relative

	RadarOn       bool
	RadarDistance int
	RadarSetting  int
	Radar         []RadarCell

	Clock     uint64
	Resurrect bool
	Random    float64
}

// blockedAround marks directions whose neighbour is a wall or a tank.
func blockedAround(g *Grid, at Coord) DirectionSet {
	var s DirectionSet
	for _, d := range Directions {
		if !g.Enterable(at.Step(d)) {
			s.Set(d)
		}
	}
	return s
}

// incomingAround marks directions from which a missile is flying straight at
// `at`, looking along each line until a wall.
func incomingAround(g *Grid, at Coord, byCell map[Coord][]*Missile) DirectionSet {
	var s DirectionSet
	for _, d := range Directions {
		for c := at.Step(d); !g.IsWall(c); c = c.Step(d) {
			for _, m := range byCell[c] {
				if m.Direction == d.Backward() {
					s.Set(d)
				}
			}
		}
	}
	return s
}
