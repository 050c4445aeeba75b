package core

// RadarPosition is a column of the radar cone.
type RadarPosition uint8

const (
	RadarLeft RadarPosition = iota
	RadarCenter
	RadarRight
)

// String returns "left", "center" or "right".
func (p RadarPosition) String() string {
	switch p {
	case RadarLeft:
		return "left"
	case RadarCenter:
		return "center"
	default:
		return "right"
	}
}

// RadarLabel describes what the radar saw in a cell.
type RadarLabel uint8

const (
	RadarUnscanned RadarLabel = iota
	RadarOpen
	RadarObstacle
	RadarTank
	RadarMissiles
	RadarEnergy
	RadarHealth
)

// String returns the label as agents see it.
func (l RadarLabel) String() string {
	switch l {
	case RadarOpen:
		return "open"
	case RadarObstacle:
		return "obstacle"
	case RadarTank:
		return "tank"
	case RadarMissiles:
		return "missiles"
	case RadarEnergy:
		return "energy"
	case RadarHealth:
		return "health"
	default:
		return "none"
	}
}

// RadarCell is one observed cell of the cone.
type RadarCell struct {
	Position RadarPosition
	Distance int
	Label    RadarLabel
	Color    string // Occupant colour when Label == RadarTank
}

// RadarResult is an immutable scan produced fresh each tick.
// Grid is indexed [distance][position].
type RadarResult struct {
	Grid     [][3]RadarCell
	Distance int // Observed distance
	Cells    []RadarCell

	illuminated []TankID
}

// RadarScanner sweeps a 3-wide cone ahead of a tank.
type RadarScanner struct {
	grid  *Grid
	tanks []*Tank
	rules Rules
}

// NewRadarScanner creates a scanner over the grid and tank set.
func NewRadarScanner(g *Grid, tanks []*Tank, rules Rules) *RadarScanner {
	return &RadarScanner{grid: g, tanks: tanks, rules: rules}
}

// Scan sweeps from self's cell forward, up to power rows. Each row is scanned
// center first; a blocked center ends the sweep after that row's side cells.
func (s *RadarScanner) Scan(self *Tank, power int) RadarResult {
	power = clamp(power, 0, s.rules.maxRadarDistance())
	res := RadarResult{Grid: make([][3]RadarCell, power+1)}
	facing := self.Facing
	blocked := false

	for d := 0; d <= power; d++ {
		center := self.Location.StepN(facing, d)
		if d > 0 {
			blocked = s.observe(&res, self, center, RadarCenter, d)
		}
		s.observe(&res, self, center.Step(facing.Left()), RadarLeft, d)
		s.observe(&res, self, center.Step(facing.Right()), RadarRight, d)
		res.Distance = d
		if blocked {
			break
		}
	}
	return res
}

// observe records one cell and reports whether it blocks the sweep.
func (s *RadarScanner) observe(res *RadarResult, self *Tank, c Coord, pos RadarPosition, d int) bool {
	cell := s.grid.At(c)
	rc := RadarCell{Position: pos, Distance: d}
	blocks := false
	switch {
	case cell.Kind == CellWall:
		rc.Label = RadarObstacle
		blocks = true
	case cell.Content == ContentTank:
		rc.Label = RadarTank
		blocks = true
		if id := cell.Tank; id >= 0 && int(id) < len(s.tanks) {
			rc.Color = s.tanks[id].Color
			if id != self.ID {
				res.illuminated = append(res.illuminated, id)
			}
		}
	case cell.Content == ContentMissilePack:
		rc.Label = RadarMissiles
	case cell.Kind == CellEnergyCharger:
		rc.Label = RadarEnergy
	case cell.Kind == CellHealthCharger:
		rc.Label = RadarHealth
	default:
		rc.Label = RadarOpen
	}
	res.Grid[d][pos] = rc
	res.Cells = append(res.Cells, rc)
	return blocks
}

// Illuminated lists tanks the scan reflected off.
func (r RadarResult) Illuminated() []TankID {
	return r.illuminated
}
