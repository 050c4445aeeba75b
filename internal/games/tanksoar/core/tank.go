package core

// Entity carries the identity fields shared by every participant.
type Entity struct {
	Name   string
	Color  string
	Points int
}

// Rotation is a requested turn.
type Rotation uint8

const (
	RotateNone Rotation = iota
	RotateLeft
	RotateRight
)

// String returns "left", "right" or "none".
func (r Rotation) String() string {
	switch r {
	case RotateLeft:
		return "left"
	case RotateRight:
		return "right"
	default:
		return "none"
	}
}

// MoveRecord is what a tank actually did during the last tick.
type MoveRecord struct {
	Move         Direction // Requested move direction, DirNone if none
	Moved        bool      // Move survived collision resolution
	Rotate       Rotation
	Fire         bool
	RadarSwitch  *bool
	RadarPower   *int
	ShieldSwitch *bool
}

// Active reports whether the tank moved or rotated, which makes it audible.
func (r MoveRecord) Active() bool {
	return r.Moved || r.Rotate != RotateNone
}

// Tank is the full mutable state of one combatant.
type Tank struct {
	Entity

	ID         TankID
	Location   Coord
	Facing     Direction
	Health     int
	Energy     int
	Missiles   int
	ShieldOn   bool
	RadarOn    bool
	RadarPower int
	LastMove   MoveRecord

	resurrected bool
	rwaves      DirectionSet
	colliding   bool

	Hits   int // Missiles this tank landed
	Kills  int
	Deaths int
}

// NewTank creates a tank at full strength.
func NewTank(id TankID, e Entity, at Coord, facing Direction, rules Rules) *Tank {
	t := &Tank{
		Entity:   e,
		ID:       id,
		Location: at,
		Facing:   facing,
	}
	t.restore(rules)
	return t
}

// restore refills health, energy and missiles and drops shield and radar.
func (t *Tank) restore(rules Rules) {
	t.Health = rules.MaxHealth
	t.Energy = rules.MaxEnergy
	t.Missiles = rules.InitialMissiles
	t.ShieldOn = false
	t.RadarOn = false
	t.RadarPower = 0
}

// Dead reports whether health is exhausted.
func (t *Tank) Dead() bool {
	return t.Health <= 0
}

// Resurrected reports whether the tank respawned during the last tick.
func (t *Tank) Resurrected() bool {
	return t.resurrected
}

// AdjustHealth adds delta to health, clamped to [0, max].
func (t *Tank) AdjustHealth(delta, max int) {
	t.Health = clamp(t.Health+delta, 0, max)
}

// AdjustEnergy adds delta to energy, clamped to [0, max].
func (t *Tank) AdjustEnergy(delta, max int) {
	t.Energy = clamp(t.Energy+delta, 0, max)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
