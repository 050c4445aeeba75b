package tanksoar

import (
	"fmt"

	platformcore "github.com/vovakirdan/tanksoar/internal/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// Layout constants. Each grid cell is drawn two characters wide.
const (
	cellW      = 2
	gridTop    = 2
	gridLeft   = 1
	panelGap   = 2
	panelWidth = 30
)

var facingGlyphs = map[core.Direction]rune{
	core.DirNorth: '^',
	core.DirEast:  '>',
	core.DirSouth: 'v',
	core.DirWest:  '<',
}

// Render draws the battlefield, the tank panel and the event log.
func (g *Game) Render(s *platformcore.Screen) {
	s.Clear()

	if g.err != nil {
		s.DrawTextCentered(s.Height()/2, "cannot start match")
		s.DrawTextCentered(s.Height()/2+1, g.err.Error())
		return
	}
	if g.match == nil {
		return
	}

	w := g.match.World()
	n := w.Grid().N
	px := gridLeft + n*cellW + panelGap
	need := platformcore.NewRect(0, 0, px+panelWidth+1, gridTop+n+2)
	screen := platformcore.NewRect(0, 0, s.Width(), s.Height())
	if !screen.Contains(need.Right()-1, need.Bottom()-1) {
		s.DrawTextCentered(s.Height()/2, "Terminal too small")
		s.DrawTextCentered(s.Height()/2+1, fmt.Sprintf("need %dx%d", need.W, need.H))
		return
	}

	title := fmt.Sprintf("TankSoar - %s   tick %d", g.mapInfo.Name, w.Tick())
	s.DrawTextColored(gridLeft, 0, title, platformcore.ColorWhite)

	g.renderGrid(s, w)

	// Side panel: boxed, one column clear of the grid.
	_, side := screen.SplitH(px - 1)
	panel := platformcore.NewRect(side.X, gridTop-1, panelWidth+2, s.Height()-gridTop)
	s.DrawBox(panel)
	inner := panel.Inset(1)
	y := g.renderTanks(s, w, inner.X, inner.Y)
	y = g.renderSensors(s, w, inner.X, y+1)
	g.renderLog(s, inner, y+1)

	footer := "arrows move  a/d rotate  space fire  s shield  r radar  +/- power  p pause  q quit"
	switch {
	case g.over:
		st := g.State()
		msg := "MATCH TIED"
		if st.Winner != "" {
			msg = st.Winner + " WINS"
		}
		footer = msg + "  -  n: new match  q: quit"
	case g.paused:
		footer = "PAUSED  -  p: resume"
	}
	s.DrawText(gridLeft, s.Height()-1, footer)
}

func (g *Game) renderGrid(s *platformcore.Screen, w *core.World) {
	grid := w.Grid()
	for y := 0; y < grid.N; y++ {
		for x := 0; x < grid.N; x++ {
			ch, color := cellGlyph(grid.At(core.C(x, y)), w)
			s.SetColored(gridLeft+x*cellW, gridTop+y, ch, color)
		}
	}

	for _, m := range w.Missiles() {
		color := platformcore.ColorOrange
		if owner := m.Owner; owner >= 0 && int(owner) < len(w.Tanks()) {
			color = platformcore.ParseColor(w.Tanks()[owner].Color)
		}
		s.SetColored(gridLeft+m.Location.X*cellW+1, gridTop+m.Location.Y, '*', color)
	}
	for _, c := range grid.Explosions() {
		s.SetColored(gridLeft+c.X*cellW+1, gridTop+c.Y, 'x', platformcore.ColorBrightRed)
	}
}

func cellGlyph(cell *core.Cell, w *core.World) (rune, platformcore.Color) {
	if cell.Content == core.ContentTank {
		t := w.Tanks()[cell.Tank]
		return facingGlyphs[t.Facing], platformcore.ParseColor(t.Color)
	}
	if cell.Content == core.ContentMissilePack {
		return 'm', platformcore.ColorCyan
	}
	switch cell.Kind {
	case core.CellWall:
		return '#', platformcore.ColorGray
	case core.CellEnergyCharger:
		return 'E', platformcore.ColorBrightYellow
	case core.CellHealthCharger:
		return 'H', platformcore.ColorGreen
	default:
		return '.', platformcore.ColorGray
	}
}

// renderTanks lists every tank's vitals and returns the next free row.
func (g *Game) renderTanks(s *platformcore.Screen, w *core.World, x, y int) int {
	for _, t := range w.Tanks() {
		color := platformcore.ParseColor(t.Color)
		flags := ""
		if t.ShieldOn {
			flags += "S"
		}
		if t.RadarOn {
			flags += fmt.Sprintf("R%d", t.RadarPower)
		}
		s.DrawTextColored(x, y, fmt.Sprintf("%c %-10.10s %4d pts", facingGlyphs[t.Facing], t.Name, t.Points), color)
		s.DrawText(x+2, y+1, fmt.Sprintf("H%4d E%4d M%2d %s", t.Health, t.Energy, t.Missiles, flags))
		y += 2
	}
	return y
}

// renderSensors shows what the player's tank perceives.
func (g *Game) renderSensors(s *platformcore.Screen, w *core.World, x, y int) int {
	snaps := w.Snapshots()
	if len(snaps) == 0 {
		return y
	}
	me := snaps[0]
	lines := []string{
		fmt.Sprintf("blocked  %-4s incoming %s", joinFlags(me.Blocked), joinFlags(me.Incoming)),
		fmt.Sprintf("rwaves   %-4s sound    %s", joinFlags(me.RWaves), me.Sound),
		fmt.Sprintf("smell    %s %d", me.SmellColor, me.SmellDistance),
	}
	if me.RadarOn {
		lines = append(lines, fmt.Sprintf("radar    %d/%d", me.RadarDistance, me.RadarSetting))
		for _, c := range me.Radar {
			if c.Label == core.RadarTank && c.Distance > 0 {
				lines = append(lines, fmt.Sprintf("  tank %s %s at %d", c.Color, c.Position, c.Distance))
			}
		}
	} else {
		lines = append(lines, "radar    off")
	}
	for _, l := range lines {
		s.DrawText(x, y, l)
		y++
	}
	return y
}

func (g *Game) renderLog(s *platformcore.Screen, area platformcore.Rect, y int) {
	for i, line := range g.log {
		if y+i >= area.Bottom() {
			return
		}
		line = line[:platformcore.Min(len(line), area.W)]
		s.DrawTextColored(area.X, y+i, line, platformcore.ColorGray)
	}
}
