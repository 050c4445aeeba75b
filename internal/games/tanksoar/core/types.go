// Package core provides the TankSoar simulation: grid, tanks, missiles,
// simultaneous-move collision resolution and per-tick sensors.
// This package is UI-agnostic and deterministic for a given seed.
package core

import "fmt"

// Direction is a compass direction on the grid.
type Direction uint8

const (
	DirNone Direction = iota
	DirNorth
	DirEast
	DirSouth
	DirWest
)

// Directions lists the four compass directions in scan order.
var Directions = [4]Direction{DirNorth, DirEast, DirSouth, DirWest}

var (
	leftOf     = [5]Direction{DirNone, DirWest, DirNorth, DirEast, DirSouth}
	rightOf    = [5]Direction{DirNone, DirEast, DirSouth, DirWest, DirNorth}
	backwardOf = [5]Direction{DirNone, DirSouth, DirWest, DirNorth, DirEast}
	deltaX     = [5]int{0, 0, 1, 0, -1}
	deltaY     = [5]int{0, -1, 0, 1, 0}
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirNorth:
		return "north"
	case DirEast:
		return "east"
	case DirSouth:
		return "south"
	case DirWest:
		return "west"
	default:
		return "none"
	}
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	return d >= DirNorth && d <= DirWest
}

// Delta returns the (dx, dy) offset for one step. North decreases Y.
func (d Direction) Delta() (dx, dy int) {
	if !d.Valid() {
		return 0, 0
	}
	return deltaX[d], deltaY[d]
}

// Left returns the direction 90 degrees counter-clockwise.
func (d Direction) Left() Direction {
	if !d.Valid() {
		return DirNone
	}
	return leftOf[d]
}

// Right returns the direction 90 degrees clockwise.
func (d Direction) Right() Direction {
	if !d.Valid() {
		return DirNone
	}
	return rightOf[d]
}

// Backward returns the opposite direction.
func (d Direction) Backward() Direction {
	if !d.Valid() {
		return DirNone
	}
	return backwardOf[d]
}

// ParseDirection parses a compass name ("north", "n", ...).
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north", "n":
		return DirNorth, true
	case "east", "e":
		return DirEast, true
	case "south", "s":
		return DirSouth, true
	case "west", "w":
		return DirWest, true
	}
	return DirNone, false
}

// Relative is a direction expressed relative to a tank's facing.
type Relative uint8

const (
	RelNone Relative = iota
	RelForward
	RelBackward
	RelLeft
	RelRight
)

// String returns the lowercase relative name; RelNone is "silent".
func (r Relative) String() string {
	switch r {
	case RelForward:
		return "forward"
	case RelBackward:
		return "backward"
	case RelLeft:
		return "left"
	case RelRight:
		return "right"
	default:
		return "silent"
	}
}

// ParseRelative parses "forward", "backward", "left" or "right".
func ParseRelative(s string) (Relative, bool) {
	switch s {
	case "forward":
		return RelForward, true
	case "backward":
		return RelBackward, true
	case "left":
		return RelLeft, true
	case "right":
		return RelRight, true
	}
	return RelNone, false
}

// RelativeTo expresses absolute direction d as seen by something facing `facing`.
func RelativeTo(facing, d Direction) Relative {
	switch {
	case !facing.Valid() || !d.Valid():
		return RelNone
	case d == facing:
		return RelForward
	case d == facing.Backward():
		return RelBackward
	case d == facing.Left():
		return RelLeft
	default:
		return RelRight
	}
}

// Absolute converts a relative direction back to a compass direction.
func Absolute(facing Direction, r Relative) Direction {
	switch r {
	case RelForward:
		return facing
	case RelBackward:
		return facing.Backward()
	case RelLeft:
		return facing.Left()
	case RelRight:
		return facing.Right()
	default:
		return DirNone
	}
}

// DirectionSet is a bitmask of compass directions.
type DirectionSet uint8

// Set adds d to the set.
func (s *DirectionSet) Set(d Direction) {
	if d.Valid() {
		*s |= 1 << d
	}
}

// Has reports whether d is in the set.
func (s DirectionSet) Has(d Direction) bool {
	return d.Valid() && s&(1<<d) != 0
}

// Relatives flags expressed relative to a facing.
type Relatives struct {
	Forward  bool `yaml:"forward" json:"forward"`
	Backward bool `yaml:"backward" json:"backward"`
	Left     bool `yaml:"left" json:"left"`
	Right    bool `yaml:"right" json:"right"`
}

// Relatives converts the set to facing-relative flags.
func (s DirectionSet) Relatives(facing Direction) Relatives {
	return Relatives{
		Forward:  s.Has(facing),
		Backward: s.Has(facing.Backward()),
		Left:     s.Has(facing.Left()),
		Right:    s.Has(facing.Right()),
	}
}

// Coord is a grid location. X grows east, Y grows south.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// StepN returns the coordinate n steps away in direction d.
func (c Coord) StepN(d Direction, n int) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx*n, Y: c.Y + dy*n}
}

// Manhattan returns |dx| + |dy|.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// DirectionTo returns the compass direction of an adjacent coordinate,
// or DirNone if other is not a 4-neighbour.
func (c Coord) DirectionTo(other Coord) Direction {
	for _, d := range Directions {
		if c.Step(d) == other {
			return d
		}
	}
	return DirNone
}
