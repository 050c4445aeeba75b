package config

import "math"

// Skill tunes how a hunter bot plays. Higher levels engage from further away
// and react faster.
type Skill struct {
	Level        float64
	FireRange    int     // Radar distance at which a visible tank is engaged
	RadarPower   int     // Radar setting while searching
	ShieldChance float64 // Chance to raise shields when a missile is incoming
	Hesitation   float64 // Chance to waste a tick instead of acting
	RetreatBelow int     // Seek a charger when health drops below this
}

// DifficultyManager calculates a bot's skill based on points/time.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) based on the bot's
// own points or the match clock.
func (d *DifficultyManager) Level(points int, ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	switch d.cfg.Progression.Type {
	case "points":
		progress = float64(points) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Skill returns hunter parameters for the current situation.
func (d *DifficultyManager) Skill(points int, ticks uint64, radarMaxPower int) Skill {
	return SkillAt(d.Level(points, ticks), radarMaxPower)
}

// SkillAt interpolates hunter parameters for a fixed level.
func SkillAt(level float64, radarMaxPower int) Skill {
	level = clampF(level, 0.0, 1.0)
	lerp := func(lo, hi float64) float64 { return lo + level*(hi-lo) }
	return Skill{
		Level:        level,
		FireRange:    int(math.Round(lerp(2, 8))),
		RadarPower:   int(math.Round(lerp(3, float64(radarMaxPower)))),
		ShieldChance: lerp(0.1, 1.0),
		Hesitation:   lerp(0.35, 0.0),
		RetreatBelow: int(math.Round(lerp(0, 500))),
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
