package core

// Rules holds every tunable constant of the simulation.
type Rules struct {
	MaxHealth       int
	MaxEnergy       int
	InitialMissiles int

	MissilePackSize        int
	MaxMissilePacks        int
	MissilePackSpawnChance float64

	CollisionDamage     int // Wall, cross and per-extra-tank meet damage
	MissileHealthDamage int // Applied with shields down
	MissileEnergyDamage int // Applied with shields up
	MaxMissileAge       int // Ticks before a missile is dropped; 0 disables

	ShieldEnergyCost int // Per tick while shields are up
	ChargerRate      int // Health or energy added per tick on a charger

	RadarMaxPower int
	RadarHeight   int // Rows in the radar result, distance 0 included
	SoundDistance int

	HitAward    int
	KillAward   int
	KillPenalty int
	PointsToWin int // 0 disables
	MaxTicks    int // 0 disables

	// SymmetricMeetDamage damages both tanks of a two-tank perpendicular
	// meet. The classic rules damage only the later tank.
	SymmetricMeetDamage bool
}

// DefaultRules returns the classic TankSoar constants.
func DefaultRules() Rules {
	return Rules{
		MaxHealth:              1000,
		MaxEnergy:              1000,
		InitialMissiles:        15,
		MissilePackSize:        7,
		MaxMissilePacks:        3,
		MissilePackSpawnChance: 0.05,
		CollisionDamage:        100,
		MissileHealthDamage:    400,
		MissileEnergyDamage:    250,
		MaxMissileAge:          120,
		ShieldEnergyCost:       20,
		ChargerRate:            250,
		RadarMaxPower:          14,
		RadarHeight:            15,
		SoundDistance:          7,
		HitAward:               2,
		KillAward:              3,
		KillPenalty:            2,
		PointsToWin:            50,
		MaxTicks:               0,
	}
}

// maxRadarDistance is the deepest row a scan can reach.
func (r Rules) maxRadarDistance() int {
	d := r.RadarMaxPower
	if r.RadarHeight-1 < d {
		d = r.RadarHeight - 1
	}
	if d < 0 {
		return 0
	}
	return d
}
