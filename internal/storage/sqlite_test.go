package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tanksoar/internal/match"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func result(id, winner string, reason match.EndReason, tanks ...match.TankResult) match.Result {
	return match.Result{
		MatchID:  id,
		MapID:    "duel",
		Seed:     42,
		Reason:   reason,
		Winner:   winner,
		Ticks:    120,
		Duration: 1500 * time.Millisecond,
		Tanks:    tanks,
	}
}

func tank(name, bot string, points, kills int) match.TankResult {
	return match.TankResult{Name: name, Color: "red", Bot: bot, Points: points, Hits: points / 2, Kills: kills, Deaths: 1}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndLoadMatch(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	r := result("m-1", "alpha", match.EndReasonCompleted,
		tank("alpha", "hunter", 12, 2),
		tank("bravo", "wanderer", 3, 0),
	)
	if err := store.SaveMatchResult(ctx, r); err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.MatchByID(ctx, "m-1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nil")
	}
	if got.MapID != "duel" || got.Seed != 42 || got.Ticks != 120 || got.Reason != match.EndReasonCompleted {
		t.Errorf("match = %+v", got.Result)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, expected 1.5s", got.Duration)
	}
	if len(got.Tanks) != 2 || got.Tanks[0].Name != "alpha" || got.Tanks[1].Bot != "wanderer" {
		t.Errorf("Tanks = %+v", got.Tanks)
	}

	missing, err := store.MatchByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("MatchByID(nope) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestDuplicateMatchRejected(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()
	r := result("dup", "", match.EndReasonCompleted, tank("alpha", "idle", 0, 0))

	if err := store.SaveMatchResult(ctx, r); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.SaveMatchResult(ctx, r); err == nil {
		t.Error("second save with the same match id should fail")
	}

	recent, err := store.RecentMatches(ctx, 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 1 || len(recent[0].Tanks) != 1 {
		t.Errorf("failed save left partial rows: %+v", recent)
	}
}

func TestTopTanks(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	saves := []match.Result{
		result("a", "alpha", match.EndReasonCompleted, tank("alpha", "hunter", 20, 3), tank("bravo", "wanderer", 5, 0)),
		result("b", "bravo", match.EndReasonCompleted, tank("alpha", "hunter", 4, 0), tank("bravo", "wanderer", 9, 1)),
		result("c", "bravo", match.EndReasonCancelled, tank("bravo", "wanderer", 100, 9)),
	}
	for _, r := range saves {
		if err := store.SaveMatchResult(ctx, r); err != nil {
			t.Fatalf("SaveMatchResult(%s) failed: %v", r.MatchID, err)
		}
	}

	top, err := store.TopTanks(ctx, 10)
	if err != nil {
		t.Fatalf("TopTanks() failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopTanks() returned %d rows, expected 2", len(top))
	}

	alpha := top[0]
	if alpha.Name != "alpha" || alpha.Points != 24 || alpha.Matches != 2 || alpha.Wins != 1 || alpha.Kills != 3 || alpha.Best != 20 {
		t.Errorf("alpha standing = %+v", alpha)
	}
	if top[1].Name != "bravo" || top[1].Points != 14 {
		t.Errorf("bravo standing = %+v, cancelled match should not count", top[1])
	}

	best, err := store.BestScore(ctx, "bravo")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 100 {
		t.Errorf("BestScore(bravo) = %d, expected 100", best)
	}
	if none, _ := store.BestScore(ctx, "ghost"); none != 0 {
		t.Errorf("BestScore(ghost) = %d, expected 0", none)
	}
}

func TestRecentMatchesLimit(t *testing.T) {
	store := openTemp(t)
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		if err := store.SaveMatchResult(ctx, result(id, "", match.EndReasonCompleted)); err != nil {
			t.Fatalf("SaveMatchResult() failed: %v", err)
		}
	}

	recent, err := store.RecentMatches(ctx, 2)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentMatches(2) returned %d rows", len(recent))
	}
	if recent[0].MatchID != "third" || recent[1].MatchID != "second" {
		t.Errorf("order = %s, %s, expected third, second", recent[0].MatchID, recent[1].MatchID)
	}
}
