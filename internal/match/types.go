// Package match hosts TankSoar matches: it owns a World, asks every seat's
// CommandSource for a command each tick under a deadline, and reports the
// outcome. Sources run concurrently; the World itself is only touched from
// the goroutine calling Step or Run.
package match

import (
	"context"
	"time"

	"github.com/vovakirdan/tanksoar/internal/games/tanksoar/core"
)

// EndReason describes why a match stopped.
type EndReason string

const (
	EndReasonCompleted EndReason = "completed"
	EndReasonCancelled EndReason = "cancelled"
)

// Seat is one participant: the tank identity plus whoever drives it.
type Seat struct {
	core.Entity
	Bot    string // Registry id or "keyboard", recorded with results
	Source core.CommandSource
}

// TankResult is one tank's final tally.
type TankResult struct {
	Name   string
	Color  string
	Bot    string
	Points int
	Hits   int
	Kills  int
	Deaths int
}

// Result contains the outcome of a finished or stopped match.
type Result struct {
	MatchID  string
	MapID    string
	Seed     int64
	Reason   EndReason
	Winner   string // Empty on a tie
	Ticks    uint64
	Duration time.Duration
	Tanks    []TankResult
}

// ResultSaver persists finished matches.
type ResultSaver interface {
	SaveMatchResult(ctx context.Context, r Result) error
}
