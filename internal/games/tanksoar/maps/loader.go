// Package maps loads TankSoar battlefields from YAML files, either from a
// directory or from the maps built into the binary.
// This package depends on core but core does not depend on maps.
package maps

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/maps/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned when no map matches an id.
var ErrNotFound = errors.New("map not found")

// DefaultColors cycles through tank colours when neither the map nor the
// player chose one.
var DefaultColors = []string{"red", "blue", "green", "yellow", "purple", "orange", "cyan", "white"}

// Map represents a complete map definition.
type Map struct {
	ID          string
	Name        string
	Description string
	Size        int
	Kinds       [][]core.CellKind
	Packs       []core.Coord
	Slots       []formats.Slot
	Metadata    map[string]string
	FilePath    string // Empty for built-in maps
}

// NewGrid builds a fresh grid from the map. Each call returns an independent
// grid so concurrent matches never share state.
func (m *Map) NewGrid() (*core.Grid, error) {
	g, err := core.NewGrid(m.Kinds, m.Packs)
	if err != nil {
		return nil, fmt.Errorf("maps: %s: %w", m.ID, err)
	}
	return g, nil
}

// TankSpecs assigns players to the map's spawn slots in order. Players past
// the last slot get a random starting cell. Empty names and colours are
// filled from the slot or from DefaultColors.
func (m *Map) TankSpecs(players []core.Entity) []core.TankSpec {
	specs := make([]core.TankSpec, len(players))
	for i, p := range players {
		spec := core.TankSpec{Entity: p, Facing: core.DirNorth}
		if i < len(m.Slots) {
			slot := m.Slots[i]
			spec.Location = slot.Location
			spec.Facing = slot.Facing
			spec.Placed = true
			if spec.Name == "" {
				spec.Name = slot.Name
			}
			if spec.Color == "" {
				spec.Color = slot.Color
			}
		}
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("tank-%d", i+1)
		}
		if spec.Color == "" {
			spec.Color = DefaultColors[i%len(DefaultColors)]
		}
		specs[i] = spec
	}
	return specs
}

// Loader handles loading maps from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new map loader. An empty root loads built-ins only.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll loads built-in maps plus every valid map file under Root.
// Files that fail to parse are skipped. A directory map overrides a built-in
// with the same id. Returns maps sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Map, error) {
	byID := make(map[string]Map)

	builtins, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, m := range builtins {
		byID[m.ID] = m
	}

	if l.Root != "" {
		err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
				return nil
			}
			m, err := l.LoadFile(path)
			if err != nil {
				// Skip invalid files
				return nil
			}
			byID[m.ID] = m
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("maps: walking directory %s: %w", l.Root, err)
		}
	}

	out := make([]Map, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadFile loads and validates a single map file.
func (l *Loader) LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("maps: reading file %s: %w", path, err)
	}
	m, err := parse(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return Map{}, fmt.Errorf("maps: parsing file %s: %w", path, err)
	}
	m.FilePath = path
	return m, nil
}

// LoadByID loads a specific map by ID.
func (l *Loader) LoadByID(id string) (Map, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Map{}, err
	}
	for _, m := range all {
		if m.ID == id {
			return m, nil
		}
	}
	return Map{}, fmt.Errorf("maps: %q: %w", id, ErrNotFound)
}

// ListIDs returns all map IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	return ids, nil
}

// Builtin returns the maps compiled into the binary, sorted by ID.
func Builtin() ([]Map, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, fmt.Errorf("maps: reading built-in maps: %w", err)
	}
	var out []Map
	for _, e := range entries {
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("maps: reading %s: %w", e.Name(), err)
		}
		m, err := parse(data, strings.ToLower(filepath.Ext(e.Name())))
		if err != nil {
			return nil, fmt.Errorf("maps: built-in %s: %w", e.Name(), err)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Render draws the map's terrain and packs as layout rows.
func (m *Map) Render() []string {
	rows := make([]string, len(m.Kinds))
	packs := make(map[core.Coord]bool, len(m.Packs))
	for _, p := range m.Packs {
		packs[p] = true
	}
	for y, kinds := range m.Kinds {
		var b strings.Builder
		for x, k := range kinds {
			if packs[core.C(x, y)] {
				b.WriteRune(formats.GlyphMissilePack)
				continue
			}
			b.WriteRune(formats.Glyph(k))
		}
		rows[y] = b.String()
	}
	return rows
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parse routes to the right format parser and validates the grid.
func parse(data []byte, ext string) (Map, error) {
	var parsed formats.Map
	var err error
	switch ext {
	case ".yaml", ".yml":
		parsed, err = formats.ParseYAML(data)
	default:
		return Map{}, fmt.Errorf("unsupported extension: %s", ext)
	}
	if err != nil {
		return Map{}, err
	}

	m := Map{
		ID:          parsed.ID,
		Name:        parsed.Name,
		Description: parsed.Description,
		Size:        parsed.Size,
		Kinds:       parsed.Kinds,
		Packs:       parsed.Packs,
		Slots:       parsed.Slots,
		Metadata:    parsed.Metadata,
	}
	if _, err := m.NewGrid(); err != nil {
		return Map{}, err
	}
	return m, nil
}
