package core

import "math/rand"

// SoundLocator finds the nearest tank that moved or rotated this tick by
// flooding outward over non-wall cells.
type SoundLocator struct {
	grid     *Grid
	tanks    []*Tank
	maxDepth int
}

// NewSoundLocator creates a locator with a search depth cap.
func NewSoundLocator(g *Grid, tanks []*Tank, maxDepth int) *SoundLocator {
	return &SoundLocator{grid: g, tanks: tanks, maxDepth: maxDepth}
}

// Locate returns the compass direction of the first step toward the nearest
// audible tank, or DirNone if nothing is heard within range.
func (s *SoundLocator) Locate(self *Tank) Direction {
	if len(s.tanks) < 2 {
		return DirNone
	}

	origin := self.Location
	parent := map[Coord]Coord{origin: origin}
	depth := map[Coord]int{origin: 0}
	queue := []Coord{origin}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur != origin {
			if id := s.grid.TankAt(cur); id != NoTank && id != self.ID && s.tanks[id].LastMove.Active() {
				return firstStep(parent, origin, cur)
			}
		}
		if depth[cur] >= s.maxDepth {
			continue
		}
		for _, d := range Directions {
			next := cur.Step(d)
			if _, seen := parent[next]; seen || s.grid.IsWall(next) {
				continue
			}
			parent[next] = cur
			depth[next] = depth[cur] + 1
			queue = append(queue, next)
		}
	}
	return DirNone
}

// firstStep walks the parent chain back to the cell adjacent to origin.
func firstStep(parent map[Coord]Coord, origin, target Coord) Direction {
	cur := target
	for parent[cur] != origin {
		cur = parent[cur]
	}
	return origin.DirectionTo(cur)
}

// SmellLocator reports the closest other tank by Manhattan distance.
type SmellLocator struct {
	tanks []*Tank
	rng   *rand.Rand
}

// NewSmellLocator creates a locator drawing tie-breaks from rng.
func NewSmellLocator(tanks []*Tank, rng *rand.Rand) *SmellLocator {
	return &SmellLocator{tanks: tanks, rng: rng}
}

// Locate returns the colour and distance of the closest other tank, or
// ("none", 0) when self is alone. Exact ties flip a coin, so the winner
// depends on iteration order and the RNG sequence.
func (s *SmellLocator) Locate(self *Tank) (string, int) {
	color := "none"
	best := -1
	for _, other := range s.tanks {
		if other.ID == self.ID {
			continue
		}
		d := self.Location.Manhattan(other.Location)
		switch {
		case best < 0 || d < best:
			best = d
			color = other.Color
		case d == best:
			if s.rng.Intn(2) == 0 {
				color = other.Color
			}
		}
	}
	if best < 0 {
		return "none", 0
	}
	return color, best
}
