package core

// Missile is a projectile in flight. It steps one cell forward each time its
// flight phase wraps from 2 back to 0.
type Missile struct {
	Location  Coord
	Direction Direction
	Owner     TankID
	Phase     int
	Age       int
}

// launchPhase makes a fresh missile leave its owner's cell on the first advance.
const launchPhase = 2

// NewMissile creates a missile sitting on its owner's cell.
func NewMissile(owner TankID, at Coord, dir Direction) *Missile {
	return &Missile{
		Location:  at,
		Direction: dir,
		Owner:     owner,
		Phase:     launchPhase,
	}
}

// Next returns the cell the missile moves into on its next step.
func (m *Missile) Next() Coord {
	return m.Location.Step(m.Direction)
}

// Threatened returns the cells the missile endangers this tick: its own cell,
// plus the next cell while in the last phase before a step.
func (m *Missile) Threatened() []Coord {
	if m.Phase == 2 {
		return []Coord{m.Location, m.Next()}
	}
	return []Coord{m.Location}
}

// Threatens reports whether c is one of the threatened cells.
func (m *Missile) Threatens(c Coord) bool {
	if m.Location == c {
		return true
	}
	return m.Phase == 2 && m.Next() == c
}

// Advance moves the flight phase forward. When the phase wraps the missile
// steps; a step into a wall destroys it and leaves it on its prior cell.
// It returns false if the missile hit a wall.
func (m *Missile) Advance(g *Grid) bool {
	m.Age++
	m.Phase = (m.Phase + 1) % 3
	if m.Phase != 0 {
		return true
	}
	next := m.Next()
	if g.IsWall(next) {
		return false
	}
	m.Location = next
	return true
}
