package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// World construction errors.
var (
	ErrNoTanks = errors.New("world needs at least one tank")
	ErrNoRNG   = errors.New("world needs a random source")
	ErrNoRoom  = errors.New("no empty cell left for tank")
)

// CommandSource supplies one tank's command for each tick.
// Implementations may block; the match runner bounds them with ctx.
type CommandSource interface {
	Command(ctx context.Context, s SensorSnapshot) (MoveCommand, error)
}

// TankSpec describes a tank to place when a world is built.
type TankSpec struct {
	Entity
	Location Coord
	Facing   Direction
	Placed   bool // Location is meaningful; otherwise a random cell is used
}

// MissileHit records a missile striking a tank.
type MissileHit struct {
	Owner    TankID
	Victim   TankID
	Cell     Coord
	Shielded bool
	Charger  bool
}

// Kill records a tank reduced to zero health. Killer is NoTank for deaths
// caused by collisions.
type Kill struct {
	Victim  TankID
	Killer  TankID
	Respawn Coord
}

// Events lists what happened during one tick.
type Events struct {
	Collisions  []CollisionHit
	MissileHits []MissileHit
	Kills       []Kill
	Pickups     []TankID
	Explosions  []Coord
	PackSpawned bool
}

// StepResult is the outcome of one tick.
type StepResult struct {
	Tick      uint64
	Snapshots []SensorSnapshot
	Warnings  []Warning
	Events    Events
	Done      bool
}

// World is the whole simulation: grid, tanks and missiles, advanced one
// synchronous tick at a time. It is not safe for concurrent use.
type World struct {
	grid     *Grid
	tanks    []*Tank
	missiles []*Missile
	rules    Rules
	rng      *rand.Rand

	resolver *CollisionResolver
	radar    *RadarScanner
	sound    *SoundLocator
	smell    *SmellLocator

	tick      uint64
	snapshots []SensorSnapshot
	done      bool
}

// NewWorld places tanks on g and computes the initial sensor snapshots.
// A spec whose location is not enterable is moved to a random empty cell
// with a WarnPlacement warning.
func NewWorld(g *Grid, specs []TankSpec, rules Rules, rng *rand.Rand) (*World, []Warning, error) {
	if len(specs) == 0 {
		return nil, nil, ErrNoTanks
	}
	if rng == nil {
		return nil, nil, ErrNoRNG
	}

	w := &World{grid: g, rules: rules, rng: rng}
	var warnings []Warning
	for i, spec := range specs {
		id := TankID(i)
		at := spec.Location
		if !spec.Placed || !g.Enterable(at) {
			if spec.Placed {
				warnings = append(warnings, Warning{
					Tank:    id,
					Code:    WarnPlacement,
					Message: fmt.Sprintf("cannot place %q at %v, using a random cell", spec.Name, at),
				})
			}
			c, ok := g.RandomEmptyCell(rng)
			if !ok {
				return nil, warnings, fmt.Errorf("placing %q: %w", spec.Name, ErrNoRoom)
			}
			at = c
		}
		facing := spec.Facing
		if !facing.Valid() {
			facing = DirNorth
		}
		t := NewTank(id, spec.Entity, at, facing, rules)
		if g.PutTank(at, id) {
			t.Missiles += rules.MissilePackSize
		}
		w.tanks = append(w.tanks, t)
	}

	w.resolver = NewCollisionResolver(g, rules)
	w.radar = NewRadarScanner(g, w.tanks, rules)
	w.sound = NewSoundLocator(g, w.tanks, rules.SoundDistance)
	w.smell = NewSmellLocator(w.tanks, rng)
	w.snapshots = w.sense()
	return w, warnings, nil
}

// Grid exposes the battlefield for rendering.
func (w *World) Grid() *Grid { return w.grid }

// Tanks returns the tanks in id order.
func (w *World) Tanks() []*Tank { return w.tanks }

// Missiles returns the missiles in flight.
func (w *World) Missiles() []*Missile { return w.missiles }

// Rules returns the constants the world runs with.
func (w *World) Rules() Rules { return w.rules }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Snapshots returns the sensor snapshots from the latest tick.
func (w *World) Snapshots() []SensorSnapshot { return w.snapshots }

// Done reports whether a win condition or the tick limit was reached.
func (w *World) Done() bool { return w.done }

// Winner returns the tank with the most points; ok is false on a tie.
func (w *World) Winner() (id TankID, ok bool) {
	id = NoTank
	best := 0
	for _, t := range w.tanks {
		switch {
		case id == NoTank || t.Points > best:
			id, best, ok = t.ID, t.Points, true
		case t.Points == best:
			ok = false
		}
	}
	return id, ok
}

// Step advances the world by one tick. cmds is indexed by tank id; missing
// entries are treated as no-ops.
func (w *World) Step(cmds []MoveCommand) StepResult {
	res := StepResult{}
	if w.done {
		res.Tick = w.tick
		res.Snapshots = w.snapshots
		res.Done = true
		return res
	}

	w.tick++
	res.Tick = w.tick
	w.grid.ClearTransient()
	for _, t := range w.tanks {
		t.resurrected = false
		t.rwaves = 0
		t.colliding = false
	}

	// Validate commands into the tick's move records.
	for _, t := range w.tanks {
		var cmd MoveCommand
		if int(t.ID) < len(cmds) {
			cmd = cmds[t.ID]
		}
		rec, warns := validate(t, cmd, w.rules)
		t.LastMove = rec
		res.Warnings = append(res.Warnings, warns...)
	}

	killers := make(map[TankID]TankID)
	w.applyControls()
	w.moveTanks(&res.Events, killers)
	w.fire()
	w.advanceMissiles()
	w.missileHits(&res.Events, killers)
	w.resolveDeaths(&res.Events, killers)
	w.upkeep()
	res.Events.PackSpawned = w.spawnMissilePack()

	res.Events.Explosions = w.grid.Explosions()
	w.snapshots = w.sense()
	w.done = w.finished()

	res.Snapshots = w.snapshots
	res.Done = w.done
	return res
}

// applyControls handles rotation and the shield and radar switches.
func (w *World) applyControls() {
	for _, t := range w.tanks {
		rec := t.LastMove
		switch rec.Rotate {
		case RotateLeft:
			t.Facing = t.Facing.Left()
		case RotateRight:
			t.Facing = t.Facing.Right()
		}
		if rec.ShieldSwitch != nil {
			// Raising shields needs at least one tick of upkeep in reserve.
			t.ShieldOn = *rec.ShieldSwitch && t.Energy >= w.rules.ShieldEnergyCost
		}
		if rec.RadarSwitch != nil {
			t.RadarOn = *rec.RadarSwitch
		}
		if rec.RadarPower != nil {
			t.RadarPower = *rec.RadarPower
		}
	}
}

// moveTanks resolves collisions then commits the surviving moves.
func (w *World) moveTanks(ev *Events, killers map[TankID]TankID) {
	reqs := make([]MoveRequest, len(w.tanks))
	for i, t := range w.tanks {
		reqs[i] = MoveRequest{Tank: t.ID, From: t.Location, Dir: t.LastMove.Move}
	}
	resolution := w.resolver.Resolve(reqs)

	for _, hit := range resolution.Hits {
		t := w.tanks[hit.Tank]
		t.colliding = true
		if hit.ChargerKill {
			t.Health = 0
		} else {
			t.AdjustHealth(-hit.Damage, w.rules.MaxHealth)
		}
		ev.Collisions = append(ev.Collisions, hit)
	}

	// Lift every mover before placing any so chains of tanks can advance.
	for i, t := range w.tanks {
		t.LastMove.Moved = resolution.Moved[i]
		if resolution.Moved[i] {
			w.grid.RemoveTank(t.Location, t.ID)
		}
	}
	for i, t := range w.tanks {
		if !resolution.Moved[i] {
			continue
		}
		t.Location = resolution.Dest[i]
		if w.grid.PutTank(t.Location, t.ID) {
			t.Missiles += w.rules.MissilePackSize
			ev.Pickups = append(ev.Pickups, t.ID)
		}
	}

	// A tank that drove into a missile's path is struck immediately.
	for i, t := range w.tanks {
		if !resolution.Moved[i] {
			continue
		}
		kept := w.missiles[:0]
		for _, m := range w.missiles {
			if m.Owner != t.ID && m.Threatens(t.Location) {
				ev.MissileHits = append(ev.MissileHits, w.strike(m, t, killers))
				continue
			}
			kept = append(kept, m)
		}
		w.missiles = kept
	}

	if got := w.grid.TankCount(); got != len(w.tanks) {
		panic(fmt.Sprintf("tanksoar: %d tanks on grid after moves, expected %d", got, len(w.tanks)))
	}
}

// fire launches missiles from the post-move location along the new facing.
func (w *World) fire() {
	for _, t := range w.tanks {
		if !t.LastMove.Fire {
			continue
		}
		t.Missiles--
		w.missiles = append(w.missiles, NewMissile(t.ID, t.Location, t.Facing))
	}
}

// advanceMissiles flies every missile; wall impacts explode on the last open cell.
func (w *World) advanceMissiles() {
	kept := w.missiles[:0]
	for _, m := range w.missiles {
		if !m.Advance(w.grid) {
			w.grid.MarkExplosion(m.Location)
			continue
		}
		if w.rules.MaxMissileAge > 0 && m.Age > w.rules.MaxMissileAge {
			continue
		}
		kept = append(kept, m)
	}
	w.missiles = kept
}

// missileHits strikes tanks standing in a missile's threatened cells.
func (w *World) missileHits(ev *Events, killers map[TankID]TankID) {
	kept := w.missiles[:0]
	for _, m := range w.missiles {
		hit := false
		for _, c := range m.Threatened() {
			id := w.grid.TankAt(c)
			if id == NoTank || id == m.Owner {
				continue
			}
			ev.MissileHits = append(ev.MissileHits, w.strike(m, w.tanks[id], killers))
			hit = true
			break
		}
		if !hit {
			kept = append(kept, m)
		}
	}
	w.missiles = kept
}

// strike applies one missile's damage to t and credits the owner. The first
// missile to take a tank's health to zero is recorded as the killer.
// The caller removes the missile.
func (w *World) strike(m *Missile, t *Tank, killers map[TankID]TankID) MissileHit {
	hit := MissileHit{Owner: m.Owner, Victim: t.ID, Cell: t.Location}
	wasDead := t.Dead()
	switch {
	case w.grid.At(t.Location).Kind.IsCharger():
		hit.Charger = true
		t.Health = 0
	case t.ShieldOn:
		hit.Shielded = true
		t.AdjustEnergy(-w.rules.MissileEnergyDamage, w.rules.MaxEnergy)
	default:
		t.AdjustHealth(-w.rules.MissileHealthDamage, w.rules.MaxHealth)
	}
	if owner := w.tank(m.Owner); owner != nil {
		owner.Points += w.rules.HitAward
		owner.Hits++
	}
	if _, seen := killers[t.ID]; !seen && !wasDead && t.Dead() {
		killers[t.ID] = m.Owner
	}
	w.grid.MarkExplosion(t.Location)
	return hit
}

// resolveDeaths scores and respawns every tank with no health left.
func (w *World) resolveDeaths(ev *Events, killers map[TankID]TankID) {
	for _, t := range w.tanks {
		if !t.Dead() {
			continue
		}
		killer, ok := killers[t.ID]
		if !ok {
			killer = NoTank
		}
		t.Points -= w.rules.KillPenalty
		t.Deaths++
		if k := w.tank(killer); k != nil && k.ID != t.ID {
			k.Points += w.rules.KillAward
			k.Kills++
		}

		w.grid.RemoveTank(t.Location, t.ID)
		if c, found := w.grid.RandomEmptyCell(w.rng); found {
			t.Location = c
		}
		t.restore(w.rules)
		// Respawn cells never hold a pack, so there is nothing to pick up.
		w.grid.PutTank(t.Location, t.ID)
		t.resurrected = true
		ev.Kills = append(ev.Kills, Kill{Victim: t.ID, Killer: killer, Respawn: t.Location})
	}
}

// upkeep charges shield and radar costs, then feeds tanks on chargers.
func (w *World) upkeep() {
	for _, t := range w.tanks {
		if t.ShieldOn {
			if t.Energy >= w.rules.ShieldEnergyCost {
				t.Energy -= w.rules.ShieldEnergyCost
			} else {
				t.ShieldOn = false
			}
		}
		if t.RadarOn {
			t.Energy -= w.radarPower(t)
		}
		if t.Energy <= 0 {
			t.Energy = 0
			t.ShieldOn = false
			t.RadarOn = false
		}

		switch w.grid.At(t.Location).Kind {
		case CellEnergyCharger:
			t.AdjustEnergy(w.rules.ChargerRate, w.rules.MaxEnergy)
		case CellHealthCharger:
			t.AdjustHealth(w.rules.ChargerRate, w.rules.MaxHealth)
		}
	}
}

// radarPower is the setting silently capped by the energy available.
func (w *World) radarPower(t *Tank) int {
	p := t.RadarPower
	if p > t.Energy {
		p = t.Energy
	}
	return clamp(p, 0, w.rules.RadarMaxPower)
}

// spawnMissilePack may drop one pack while fewer than the maximum are out.
func (w *World) spawnMissilePack() bool {
	if w.grid.MissilePacks() >= w.rules.MaxMissilePacks {
		return false
	}
	if w.rng.Float64() >= w.rules.MissilePackSpawnChance {
		return false
	}
	c, ok := w.grid.RandomEmptyCell(w.rng)
	if !ok {
		return false
	}
	return w.grid.PlaceMissilePack(c)
}

// sense builds every tank's snapshot. Radar runs for all tanks first so
// radar waves are in place before any snapshot reads them.
func (w *World) sense() []SensorSnapshot {
	scans := make([]RadarResult, len(w.tanks))
	for i, t := range w.tanks {
		if !t.RadarOn {
			continue
		}
		scans[i] = w.radar.Scan(t, w.radarPower(t))
		for _, id := range scans[i].Illuminated() {
			w.tanks[id].rwaves.Set(t.Facing.Backward())
		}
	}

	byCell := make(map[Coord][]*Missile, len(w.missiles))
	for _, m := range w.missiles {
		byCell[m.Location] = append(byCell[m.Location], m)
	}

	out := make([]SensorSnapshot, len(w.tanks))
	for i, t := range w.tanks {
		s := SensorSnapshot{
			Tank:         t.ID,
			Name:         t.Name,
			Color:        t.Color,
			Location:     t.Location,
			Facing:       t.Facing,
			Health:       t.Health,
			Energy:       t.Energy,
			ShieldOn:     t.ShieldOn,
			Missiles:     t.Missiles,
			Points:       t.Points,
			Blocked:      blockedAround(w.grid, t.Location).Relatives(t.Facing),
			Incoming:     incomingAround(w.grid, t.Location, byCell).Relatives(t.Facing),
			RWaves:       t.rwaves.Relatives(t.Facing),
			RadarOn:      t.RadarOn,
			RadarSetting: t.RadarPower,
			Clock:        w.tick,
			Resurrect:    t.resurrected,
		}
		if t.RadarOn {
			s.RadarDistance = scans[i].Distance
			s.Radar = scans[i].Cells
		}
		s.SmellColor, s.SmellDistance = w.smell.Locate(t)
		s.Sound = RelativeTo(t.Facing, w.sound.Locate(t))
		s.Random = w.rng.Float64()
		out[i] = s
	}
	return out
}

func (w *World) finished() bool {
	if w.rules.MaxTicks > 0 && w.tick >= uint64(w.rules.MaxTicks) {
		return true
	}
	if w.rules.PointsToWin > 0 {
		for _, t := range w.tanks {
			if t.Points >= w.rules.PointsToWin {
				return true
			}
		}
	}
	return false
}

func (w *World) tank(id TankID) *Tank {
	if id < 0 || int(id) >= len(w.tanks) {
		return nil
	}
	return w.tanks[id]
}
