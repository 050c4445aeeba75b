// Package config provides YAML-based rules configuration and bot skill
// management for TankSoar.
package config

import (
	"fmt"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// RulesConfig contains every tunable constant of a match.
type RulesConfig struct {
	Tank       TankRules        `yaml:"tank"`
	Missiles   MissileRules     `yaml:"missiles"`
	Collisions CollisionRules   `yaml:"collisions"`
	Economy    EconomyRules     `yaml:"economy"`
	Sensors    SensorRules      `yaml:"sensors"`
	Scoring    ScoringRules     `yaml:"scoring"`
	Bots       BotsConfig       `yaml:"bots"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TankRules defines a fresh tank.
type TankRules struct {
	MaxHealth       int `yaml:"max_health"`
	MaxEnergy       int `yaml:"max_energy"`
	InitialMissiles int `yaml:"initial_missiles"`
}

// MissileRules defines missile damage, lifetime and pack respawn.
type MissileRules struct {
	HealthDamage    int     `yaml:"health_damage"`
	EnergyDamage    int     `yaml:"energy_damage"`
	MaxAge          int     `yaml:"max_age"`
	PackSize        int     `yaml:"pack_size"`
	MaxPacks        int     `yaml:"max_packs"`
	PackSpawnChance float64 `yaml:"pack_spawn_chance"`
}

// CollisionRules defines collision damage.
type CollisionRules struct {
	Damage        int  `yaml:"damage"`
	SymmetricMeet bool `yaml:"symmetric_meet"` // Damage both tanks of a perpendicular meet
}

// EconomyRules defines per-tick energy costs and charger rates.
type EconomyRules struct {
	ShieldEnergyCost int `yaml:"shield_energy_cost"`
	ChargerRate      int `yaml:"charger_rate"`
}

// SensorRules defines radar and sound limits.
type SensorRules struct {
	RadarMaxPower int `yaml:"radar_max_power"`
	RadarHeight   int `yaml:"radar_height"`
	SoundDistance int `yaml:"sound_distance"`
}

// ScoringRules defines points and end conditions.
type ScoringRules struct {
	HitAward    int `yaml:"hit_award"`
	KillAward   int `yaml:"kill_award"`
	KillPenalty int `yaml:"kill_penalty"`
	PointsToWin int `yaml:"points_to_win"` // 0 = no points limit
	MaxTicks    int `yaml:"max_ticks"`     // 0 = no tick limit
}

// BotsConfig defines defaults for computer-controlled tanks.
type BotsConfig struct {
	Default string `yaml:"default"` // Registry id used to fill empty seats
	Count   int    `yaml:"count"`   // Opponents added by `play` and `serve`
}

// DifficultyConfig defines how hunter bots sharpen over a match.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines how difficulty increases over a match.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "points", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Points/ticks at which max difficulty is reached
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard, fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.4
	case DifficultyHard:
		return 0.8
	default:
		return 0.4
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RulesConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}

// Rules converts the file layout into simulation constants.
func (c RulesConfig) Rules() core.Rules {
	return core.Rules{
		MaxHealth:              c.Tank.MaxHealth,
		MaxEnergy:              c.Tank.MaxEnergy,
		InitialMissiles:        c.Tank.InitialMissiles,
		MissilePackSize:        c.Missiles.PackSize,
		MaxMissilePacks:        c.Missiles.MaxPacks,
		MissilePackSpawnChance: c.Missiles.PackSpawnChance,
		CollisionDamage:        c.Collisions.Damage,
		MissileHealthDamage:    c.Missiles.HealthDamage,
		MissileEnergyDamage:    c.Missiles.EnergyDamage,
		MaxMissileAge:          c.Missiles.MaxAge,
		ShieldEnergyCost:       c.Economy.ShieldEnergyCost,
		ChargerRate:            c.Economy.ChargerRate,
		RadarMaxPower:          c.Sensors.RadarMaxPower,
		RadarHeight:            c.Sensors.RadarHeight,
		SoundDistance:          c.Sensors.SoundDistance,
		HitAward:               c.Scoring.HitAward,
		KillAward:              c.Scoring.KillAward,
		KillPenalty:            c.Scoring.KillPenalty,
		PointsToWin:            c.Scoring.PointsToWin,
		MaxTicks:               c.Scoring.MaxTicks,
		SymmetricMeetDamage:    c.Collisions.SymmetricMeet,
	}
}

// Validate rejects values the simulation cannot run with.
func (c RulesConfig) Validate() error {
	switch {
	case c.Tank.MaxHealth <= 0:
		return fmt.Errorf("config: tank.max_health must be positive, got %d", c.Tank.MaxHealth)
	case c.Tank.MaxEnergy <= 0:
		return fmt.Errorf("config: tank.max_energy must be positive, got %d", c.Tank.MaxEnergy)
	case c.Tank.InitialMissiles < 0:
		return fmt.Errorf("config: tank.initial_missiles must not be negative, got %d", c.Tank.InitialMissiles)
	case c.Missiles.PackSpawnChance < 0 || c.Missiles.PackSpawnChance > 1:
		return fmt.Errorf("config: missiles.pack_spawn_chance must be in [0,1], got %v", c.Missiles.PackSpawnChance)
	case c.Sensors.RadarMaxPower < 0 || c.Sensors.RadarHeight < 1:
		return fmt.Errorf("config: sensors radar limits %d/%d out of range", c.Sensors.RadarMaxPower, c.Sensors.RadarHeight)
	case c.Scoring.PointsToWin < 0 || c.Scoring.MaxTicks < 0:
		return fmt.Errorf("config: scoring limits must not be negative")
	}
	return nil
}
