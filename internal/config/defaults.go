package config

import (
	_ "embed"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

//go:embed defaults/rules.yaml
var defaultRulesYAML []byte

// DefaultRulesConfig returns the classic rules.
func DefaultRulesConfig() RulesConfig {
	r := core.DefaultRules()
	return RulesConfig{
		Tank: TankRules{
			MaxHealth:       r.MaxHealth,
			MaxEnergy:       r.MaxEnergy,
			InitialMissiles: r.InitialMissiles,
		},
		Missiles: MissileRules{
			HealthDamage:    r.MissileHealthDamage,
			EnergyDamage:    r.MissileEnergyDamage,
			MaxAge:          r.MaxMissileAge,
			PackSize:        r.MissilePackSize,
			MaxPacks:        r.MaxMissilePacks,
			PackSpawnChance: r.MissilePackSpawnChance,
		},
		Collisions: CollisionRules{
			Damage: r.CollisionDamage,
		},
		Economy: EconomyRules{
			ShieldEnergyCost: r.ShieldEnergyCost,
			ChargerRate:      r.ChargerRate,
		},
		Sensors: SensorRules{
			RadarMaxPower: r.RadarMaxPower,
			RadarHeight:   r.RadarHeight,
			SoundDistance: r.SoundDistance,
		},
		Scoring: ScoringRules{
			HitAward:    r.HitAward,
			KillAward:   r.KillAward,
			KillPenalty: r.KillPenalty,
			PointsToWin: r.PointsToWin,
			MaxTicks:    r.MaxTicks,
		},
		Bots: BotsConfig{
			Default: "hunter",
			Count:   3,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.4,
			Progression: ProgressionConfig{
				Type:  "points",
				MaxAt: 40,
			},
		},
	}
}

// DefaultRulesYAML returns the embedded default rules file.
func DefaultRulesYAML() []byte {
	return defaultRulesYAML
}
