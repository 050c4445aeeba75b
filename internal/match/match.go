package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/maps"
)

// ErrNoSeats is returned when a match is created without participants.
var ErrNoSeats = errors.New("match: no seats")

// Config tunes how a match is paced and observed.
type Config struct {
	// FPS is the tick rate for Run. Zero runs as fast as sources answer.
	FPS int

	// CommandTimeout bounds each source per tick. Zero waits for the
	// caller's context only.
	CommandTimeout time.Duration

	Logger *log.Logger
	Saver  ResultSaver

	// OnTick is called after every tick from the goroutine running Run.
	OnTick func(core.StepResult)
}

type seat struct {
	Seat
	busy atomic.Bool
}

type reply struct {
	cmd core.MoveCommand
	err error
}

// Match runs one World with its seats.
type Match struct {
	id      string
	mapID   string
	seed    int64
	cfg     Config
	logger  *log.Logger
	world   *core.World
	seats   []*seat
	started time.Time
}

// New builds a world on m for the given seats. Placement warnings are
// logged and returned; an unusable map is a hard error.
func New(m *maps.Map, seats []Seat, rules core.Rules, seed int64, cfg Config) (*Match, []core.Warning, error) {
	if len(seats) == 0 {
		return nil, nil, ErrNoSeats
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	g, err := m.NewGrid()
	if err != nil {
		return nil, nil, err
	}
	entities := make([]core.Entity, len(seats))
	for i, s := range seats {
		entities[i] = s.Entity
	}
	specs := m.TankSpecs(entities)

	world, warnings, err := core.NewWorld(g, specs, rules, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, warnings, fmt.Errorf("match: %w", err)
	}

	mt := &Match{
		id:     uuid.NewString(),
		mapID:  m.ID,
		seed:   seed,
		cfg:    cfg,
		logger: logger,
		world:  world,
	}
	for i, s := range seats {
		s.Entity = specs[i].Entity
		if s.Source == nil {
			return nil, warnings, fmt.Errorf("match: seat %d (%s) has no command source", i, s.Name)
		}
		mt.seats = append(mt.seats, &seat{Seat: s})
	}
	mt.logWarnings(warnings)
	return mt, warnings, nil
}

// ID returns the match's unique id.
func (m *Match) ID() string { return m.id }

// World exposes the simulation for rendering. Callers must not mutate it.
func (m *Match) World() *core.World { return m.world }

// Seats returns the seat list in tank id order.
func (m *Match) Seats() []Seat {
	out := make([]Seat, len(m.seats))
	for i, s := range m.seats {
		out[i] = s.Seat
	}
	return out
}

// Step collects one command per seat and advances the world one tick.
// Late or failing sources contribute a no-op and a WarnLateCommand warning.
func (m *Match) Step(ctx context.Context) core.StepResult {
	if m.started.IsZero() {
		m.started = time.Now()
	}
	cmds, late := m.collect(ctx)
	res := m.world.Step(cmds)
	res.Warnings = append(late, res.Warnings...)
	m.report(res)
	return res
}

// collect queries every seat concurrently against the latest snapshots.
func (m *Match) collect(ctx context.Context) ([]core.MoveCommand, []core.Warning) {
	snaps := m.world.Snapshots()
	cmds := make([]core.MoveCommand, len(m.seats))
	warns := make([][]core.Warning, len(m.seats))

	done := make(chan struct{}, len(m.seats))
	for i, s := range m.seats {
		go func(i int, s *seat) {
			defer func() { done <- struct{}{} }()
			cmd, err := m.ask(ctx, s, snaps[i])
			if err != nil {
				warns[i] = append(warns[i], core.Warning{
					Tank:    core.TankID(i),
					Code:    core.WarnLateCommand,
					Message: err.Error(),
				})
				return
			}
			cmds[i] = cmd
		}(i, s)
	}
	for range m.seats {
		<-done
	}

	var out []core.Warning
	for _, w := range warns {
		out = append(out, w...)
	}
	return cmds, out
}

// ask calls one source under the per-tick deadline. A source still busy
// with an earlier tick is skipped rather than called twice.
func (m *Match) ask(ctx context.Context, s *seat, snap core.SensorSnapshot) (core.MoveCommand, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return core.MoveCommand{}, fmt.Errorf("%s is still deciding an earlier tick", s.Name)
	}

	cctx, cancel := ctx, context.CancelFunc(func() {})
	if m.cfg.CommandTimeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, m.cfg.CommandTimeout)
	}
	defer cancel()

	ch := make(chan reply, 1)
	go func() {
		cmd, err := s.Source.Command(cctx, snap)
		s.busy.Store(false)
		ch <- reply{cmd: cmd, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return core.MoveCommand{}, fmt.Errorf("%s: %w", s.Name, r.err)
		}
		return r.cmd, nil
	case <-cctx.Done():
		return core.MoveCommand{}, fmt.Errorf("%s: no command in time: %w", s.Name, cctx.Err())
	}
}

// Run steps the match until it finishes or ctx is cancelled, then saves and
// returns the result. A cancelled match is saved with EndReasonCancelled and
// returned together with ctx's error.
func (m *Match) Run(ctx context.Context) (Result, error) {
	m.logger.Info("match started",
		"match", m.id,
		"map", m.mapID,
		"seed", m.seed,
		"tanks", len(m.seats),
	)

	var tick <-chan time.Time
	if m.cfg.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(m.cfg.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	for !m.world.Done() {
		if ctx.Err() != nil {
			return m.cancel(ctx)
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return m.cancel(ctx)
			case <-tick:
			}
		}

		res := m.Step(ctx)
		if m.cfg.OnTick != nil {
			m.cfg.OnTick(res)
		}
	}

	r := m.finish(EndReasonCompleted)
	if err := m.save(ctx, r); err != nil {
		return r, err
	}
	return r, nil
}

// cancel records the partial match. The save outlives ctx.
func (m *Match) cancel(ctx context.Context) (Result, error) {
	r := m.finish(EndReasonCancelled)
	if err := m.save(context.WithoutCancel(ctx), r); err != nil {
		return r, errors.Join(ctx.Err(), err)
	}
	return r, ctx.Err()
}

func (m *Match) save(ctx context.Context, r Result) error {
	if m.cfg.Saver == nil {
		return nil
	}
	if err := m.cfg.Saver.SaveMatchResult(ctx, r); err != nil {
		return fmt.Errorf("match: saving result: %w", err)
	}
	return nil
}

// Result builds the current tally.
func (m *Match) Result(reason EndReason) Result {
	r := Result{
		MatchID: m.id,
		MapID:   m.mapID,
		Seed:    m.seed,
		Reason:  reason,
		Ticks:   m.world.Tick(),
	}
	if !m.started.IsZero() {
		r.Duration = time.Since(m.started)
	}
	for i, t := range m.world.Tanks() {
		r.Tanks = append(r.Tanks, TankResult{
			Name:   t.Name,
			Color:  t.Color,
			Bot:    m.seats[i].Bot,
			Points: t.Points,
			Hits:   t.Hits,
			Kills:  t.Kills,
			Deaths: t.Deaths,
		})
	}
	if id, ok := m.world.Winner(); ok {
		r.Winner = m.world.Tanks()[id].Name
	}
	return r
}

func (m *Match) finish(reason EndReason) Result {
	r := m.Result(reason)
	winner := r.Winner
	if winner == "" {
		winner = "tie"
	}
	m.logger.Info("match ended",
		"match", m.id,
		"reason", reason,
		"ticks", r.Ticks,
		"winner", winner,
	)
	return r
}

func (m *Match) report(res core.StepResult) {
	m.logWarnings(res.Warnings)
	tanks := m.world.Tanks()
	for _, k := range res.Events.Kills {
		killer := "collision"
		if k.Killer != core.NoTank {
			killer = tanks[k.Killer].Name
		}
		m.logger.Info("tank destroyed",
			"tick", res.Tick,
			"victim", tanks[k.Victim].Name,
			"killer", killer,
			"respawn", k.Respawn,
		)
	}
	m.logger.Debug("tick",
		"tick", res.Tick,
		"missiles", len(m.world.Missiles()),
		"hits", len(res.Events.MissileHits),
		"collisions", len(res.Events.Collisions),
		"pickups", len(res.Events.Pickups),
	)
}

func (m *Match) logWarnings(ws []core.Warning) {
	for _, w := range ws {
		name := fmt.Sprintf("tank-%d", w.Tank)
		if int(w.Tank) >= 0 && int(w.Tank) < len(m.seats) {
			name = m.seats[w.Tank].Name
		}
		m.logger.Warn(w.Message, "tank", name, "code", w.Code)
	}
}
