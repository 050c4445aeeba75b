// Package registry provides a global registry for bot factories.
// Bots register themselves in init() functions, allowing the CLI and match
// runner to seat any bot by id without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tanksoar/internal/config"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// Bot is a command source that can describe itself.
// Bots see only their own sensor snapshot and never touch the World.
type Bot interface {
	core.CommandSource

	// ID returns the registry id the bot was created from (e.g. "hunter").
	ID() string

	// Title returns a human-readable name for listings.
	Title() string
}

// Options configures a new bot instance.
type Options struct {
	Seed       int64 // Private RNG seed; bots never share the world's RNG
	Rules      core.Rules
	Difficulty config.DifficultyConfig
	Arg        string // Bot-specific argument, e.g. a script path
}

// BotInfo contains metadata about a registered bot.
type BotInfo struct {
	ID          string
	Title       string
	NeedsArg    bool
	Description string
}

// Factory is a function that creates a new instance of a bot.
type Factory func(opts Options) (Bot, error)

type entry struct {
	info    BotInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a bot factory to the registry.
// Typically called from a bot's init() function.
// Panics if a bot with the same ID is already registered.
func Register(info BotInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: bot %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered bots, sorted by ID.
func List() []BotInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BotInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a new bot by its ID.
// Returns an error if the bot ID is not registered or the factory fails.
func Create(id string, opts Options) (Bot, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown bot %q", id)
	}
	if e.info.NeedsArg && opts.Arg == "" {
		return nil, fmt.Errorf("registry: bot %q needs an argument (use %s:<arg>)", id, id)
	}
	b, err := e.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: creating %q: %w", id, err)
	}
	return b, nil
}

// Exists checks if a bot with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
