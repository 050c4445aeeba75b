package core

import (
	"errors"
	"fmt"
	"math/rand"
)

// CellKind is the static terrain of a cell.
type CellKind uint8

const (
	CellWall CellKind = iota
	CellOpen
	CellEnergyCharger
	CellHealthCharger
)

// String returns the terrain name.
func (k CellKind) String() string {
	switch k {
	case CellWall:
		return "wall"
	case CellOpen:
		return "open"
	case CellEnergyCharger:
		return "energy"
	case CellHealthCharger:
		return "health"
	default:
		return "unknown"
	}
}

// IsCharger reports whether the terrain is an energy or health charger.
func (k CellKind) IsCharger() bool {
	return k == CellEnergyCharger || k == CellHealthCharger
}

// Content is the object resting on a cell.
type Content uint8

const (
	ContentNone Content = iota
	ContentTank
	ContentMissilePack
)

// TankID indexes a tank inside its World.
type TankID int

// NoTank marks the absence of a tank.
const NoTank TankID = -1

// Cell is a single grid square.
type Cell struct {
	Kind      CellKind
	Content   Content
	Tank      TankID // Valid when Content == ContentTank
	Explosion bool   // A missile exploded here this tick
	Modified  bool   // Dirty flag for renderers
}

// Map construction errors.
var (
	ErrBadDimensions  = errors.New("grid must be square and at least 3x3")
	ErrOpenPerimeter  = errors.New("grid perimeter must be wall")
	ErrNoOpenCells    = errors.New("grid has no open cells")
	ErrContentsOnWall = errors.New("wall cell cannot hold contents")
)

// Grid is the N x N battlefield. Cells are stored row-major: index = y*N + x.
type Grid struct {
	N            int
	Cells        []Cell
	missilePacks int
}

// NewGrid builds a grid from terrain rows and validates it.
// kinds[y][x] gives the terrain; packs lists initial missile pack locations.
func NewGrid(kinds [][]CellKind, packs []Coord) (*Grid, error) {
	n := len(kinds)
	if n < 3 {
		return nil, ErrBadDimensions
	}
	g := &Grid{N: n, Cells: make([]Cell, n*n)}
	open := 0
	for y, row := range kinds {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d cells, expected %d: %w", y, len(row), n, ErrBadDimensions)
		}
		for x, k := range row {
			onEdge := x == 0 || y == 0 || x == n-1 || y == n-1
			if onEdge && k != CellWall {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, ErrOpenPerimeter)
			}
			if k != CellWall {
				open++
			}
			g.Cells[y*n+x] = Cell{Kind: k, Tank: NoTank}
		}
	}
	if open == 0 {
		return nil, ErrNoOpenCells
	}
	for _, p := range packs {
		if !g.InBounds(p) || g.At(p).Kind == CellWall {
			return nil, fmt.Errorf("missile pack at %v: %w", p, ErrContentsOnWall)
		}
		g.PlaceMissilePack(p)
	}
	return g, nil
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.N + c.X
}

// InBounds returns true if c lies on the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.N && c.Y >= 0 && c.Y < g.N
}

// At returns a pointer to the cell at c. Out-of-bounds coordinates yield a
// detached wall cell so callers never index outside the grid.
func (g *Grid) At(c Coord) *Cell {
	if !g.InBounds(c) {
		return &Cell{Kind: CellWall, Tank: NoTank}
	}
	return &g.Cells[g.index(c)]
}

// IsWall reports whether c is a wall or off the grid.
func (g *Grid) IsWall(c Coord) bool {
	return g.At(c).Kind == CellWall
}

// TankAt returns the tank occupying c, or NoTank.
func (g *Grid) TankAt(c Coord) TankID {
	cell := g.At(c)
	if cell.Content != ContentTank {
		return NoTank
	}
	return cell.Tank
}

// Enterable reports whether a tank could stand on c: not a wall, no tank.
func (g *Grid) Enterable(c Coord) bool {
	cell := g.At(c)
	return cell.Kind != CellWall && cell.Content != ContentTank
}

// PutTank places a tank on c, consuming any missile pack there.
// It returns true if a pack was picked up.
func (g *Grid) PutTank(c Coord, id TankID) (pickedUp bool) {
	cell := g.At(c)
	if cell.Content == ContentTank && cell.Tank != id {
		panic(fmt.Sprintf("tanksoar: cell %v already holds tank %d, cannot place %d", c, cell.Tank, id))
	}
	if cell.Content == ContentMissilePack {
		pickedUp = true
		g.missilePacks--
	}
	cell.Content = ContentTank
	cell.Tank = id
	cell.Modified = true
	return pickedUp
}

// RemoveTank clears the tank from c if it is there.
func (g *Grid) RemoveTank(c Coord, id TankID) {
	cell := g.At(c)
	if cell.Content == ContentTank && cell.Tank == id {
		cell.Content = ContentNone
		cell.Tank = NoTank
		cell.Modified = true
	}
}

// PlaceMissilePack drops a pack on an empty non-wall cell.
func (g *Grid) PlaceMissilePack(c Coord) bool {
	cell := g.At(c)
	if cell.Kind == CellWall || cell.Content != ContentNone {
		return false
	}
	cell.Content = ContentMissilePack
	cell.Modified = true
	g.missilePacks++
	return true
}

// MissilePacks returns the number of packs currently on the grid.
func (g *Grid) MissilePacks() int {
	return g.missilePacks
}

// MarkExplosion flags an explosion on c for this tick.
func (g *Grid) MarkExplosion(c Coord) {
	cell := g.At(c)
	if cell.Kind == CellWall {
		return
	}
	cell.Explosion = true
	cell.Modified = true
}

// ClearTransient resets per-tick explosion and dirty flags.
func (g *Grid) ClearTransient() {
	for i := range g.Cells {
		g.Cells[i].Explosion = false
		g.Cells[i].Modified = false
	}
}

// Explosions lists the cells flagged with an explosion this tick.
func (g *Grid) Explosions() []Coord {
	var out []Coord
	for y := 0; y < g.N; y++ {
		for x := 0; x < g.N; x++ {
			if g.Cells[y*g.N+x].Explosion {
				out = append(out, C(x, y))
			}
		}
	}
	return out
}

// RandomEmptyCell picks a uniformly random open (non-charger) cell with no
// contents. It makes exactly one RNG draw when at least one cell qualifies.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (Coord, bool) {
	var candidates []Coord
	for y := 1; y < g.N-1; y++ {
		for x := 1; x < g.N-1; x++ {
			cell := g.Cells[y*g.N+x]
			if cell.Kind == CellOpen && cell.Content == ContentNone {
				candidates = append(candidates, C(x, y))
			}
		}
	}
	if len(candidates) == 0 {
		return Coord{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// TankCount counts cells holding a tank.
func (g *Grid) TankCount() int {
	n := 0
	for i := range g.Cells {
		if g.Cells[i].Content == ContentTank {
			n++
		}
	}
	return n
}
