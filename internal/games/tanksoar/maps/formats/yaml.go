// Package formats provides pluggable map file format parsers.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"gopkg.in/yaml.v3"
)

// YAMLMap represents the YAML structure for a map file.
type YAMLMap struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Layout      []string          `yaml:"layout"`
	Tanks       []YAMLTank        `yaml:"tanks,omitempty"`
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// YAMLTank is a spawn slot.
type YAMLTank struct {
	Name   string `yaml:"name,omitempty"`
	Color  string `yaml:"color,omitempty"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Facing string `yaml:"facing,omitempty"`
}

// Slot is a parsed spawn slot.
type Slot struct {
	Name     string
	Color    string
	Location core.Coord
	Facing   core.Direction
}

// Map represents a parsed map ready for use.
type Map struct {
	ID          string
	Name        string
	Description string
	Size        int
	Kinds       [][]core.CellKind
	Packs       []core.Coord
	Slots       []Slot
	Metadata    map[string]string
}

// Layout glyphs.
const (
	GlyphWall          = '#'
	GlyphOpen          = '.'
	GlyphEnergyCharger = 'E'
	GlyphHealthCharger = 'H'
	GlyphMissilePack   = 'm'
)

// ParseYAML parses a YAML map file. Layout glyphs are validated here; grid
// shape and perimeter are validated when the grid is built.
func ParseYAML(data []byte) (Map, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Map{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if ym.ID == "" {
		return Map{}, fmt.Errorf("map has no id")
	}

	m := Map{
		ID:          ym.ID,
		Name:        ym.Name,
		Description: ym.Description,
		Size:        len(ym.Layout),
		Kinds:       make([][]core.CellKind, len(ym.Layout)),
		Metadata:    ym.Metadata,
	}
	if m.Name == "" {
		m.Name = m.ID
	}

	for y, row := range ym.Layout {
		row = strings.TrimRight(row, " \t")
		m.Kinds[y] = make([]core.CellKind, 0, len(row))
		for x, ch := range row {
			switch ch {
			case GlyphWall:
				m.Kinds[y] = append(m.Kinds[y], core.CellWall)
			case GlyphOpen:
				m.Kinds[y] = append(m.Kinds[y], core.CellOpen)
			case GlyphEnergyCharger:
				m.Kinds[y] = append(m.Kinds[y], core.CellEnergyCharger)
			case GlyphHealthCharger:
				m.Kinds[y] = append(m.Kinds[y], core.CellHealthCharger)
			case GlyphMissilePack:
				m.Kinds[y] = append(m.Kinds[y], core.CellOpen)
				m.Packs = append(m.Packs, core.C(x, y))
			default:
				return Map{}, fmt.Errorf("layout row %d col %d: unknown glyph %q", y, x, ch)
			}
		}
	}

	for i, yt := range ym.Tanks {
		facing := core.DirNorth
		if yt.Facing != "" {
			d, ok := core.ParseDirection(strings.ToLower(yt.Facing))
			if !ok {
				return Map{}, fmt.Errorf("tank %d: unknown facing %q", i, yt.Facing)
			}
			facing = d
		}
		m.Slots = append(m.Slots, Slot{
			Name:     yt.Name,
			Color:    yt.Color,
			Location: core.C(yt.X, yt.Y),
			Facing:   facing,
		})
	}

	return m, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Glyph returns the layout glyph for a cell kind.
func Glyph(k core.CellKind) rune {
	switch k {
	case core.CellOpen:
		return GlyphOpen
	case core.CellEnergyCharger:
		return GlyphEnergyCharger
	case core.CellHealthCharger:
		return GlyphHealthCharger
	default:
		return GlyphWall
	}
}
