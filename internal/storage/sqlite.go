// Package storage provides SQLite-based persistence for match results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tanksoar/internal/match"
)

// Store manages the SQLite database connection for the leaderboard.
type Store struct {
	db *sql.DB
}

// MatchRecord is a saved match with its per-tank tallies.
type MatchRecord struct {
	ID int64
	match.Result
	CreatedAt time.Time
}

// Standing aggregates one tank name across all saved matches.
type Standing struct {
	Name    string
	Bot     string
	Matches int
	Wins    int
	Points  int
	Kills   int
	Deaths  int
	Best    int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			map_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			end_reason TEXT NOT NULL,
			winner TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);

		CREATE TABLE IF NOT EXISTS match_tanks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL REFERENCES matches(match_id),
			seat INTEGER NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL,
			bot TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			kills INTEGER NOT NULL DEFAULT 0,
			deaths INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_match_tanks_match ON match_tanks(match_id);
		CREATE INDEX IF NOT EXISTS idx_match_tanks_name ON match_tanks(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatchResult records a match and its tanks in one transaction.
func (s *Store) SaveMatchResult(ctx context.Context, r match.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (match_id, map_id, seed, end_reason, winner, ticks, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.MatchID, r.MapID, r.Seed, string(r.Reason), r.Winner, int64(r.Ticks), r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save match: %w", err)
	}

	for i, t := range r.Tanks {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO match_tanks (match_id, seat, name, color, bot, points, hits, kills, deaths)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.MatchID, i, t.Name, t.Color, t.Bot, t.Points, t.Hits, t.Kills, t.Deaths,
		)
		if err != nil {
			return fmt.Errorf("storage: cannot save tank %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit match: %w", err)
	}
	return nil
}

// MatchByID retrieves a match by its match ID. Returns nil if not found.
func (s *Store) MatchByID(ctx context.Context, matchID string) (*MatchRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, match_id, map_id, seed, end_reason, winner, ticks, duration_ms, created_at
		 FROM matches
		 WHERE match_id = ?`,
		matchID,
	)
	rec, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	if err := s.loadTanks(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, match_id, map_id, seed, end_reason, winner, ticks, duration_ms, created_at
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range records {
		if err := s.loadTanks(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// TopTanks ranks tank names by total points across all completed matches.
func (s *Store) TopTanks(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT t.name, MAX(t.bot), COUNT(*),
		        SUM(CASE WHEN m.winner = t.name THEN 1 ELSE 0 END),
		        SUM(t.points), SUM(t.kills), SUM(t.deaths), MAX(t.points)
		 FROM match_tanks t
		 JOIN matches m ON m.match_id = t.match_id
		 WHERE m.end_reason = ?
		 GROUP BY t.name
		 ORDER BY SUM(t.points) DESC, t.name
		 LIMIT ?`,
		string(match.EndReasonCompleted), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query standings: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Name, &st.Bot, &st.Matches, &st.Wins, &st.Points, &st.Kills, &st.Deaths, &st.Best); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// BestScore returns the highest points a tank name has finished with.
// Returns 0 if the name has no matches.
func (s *Store) BestScore(ctx context.Context, name string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(points) FROM match_tanks WHERE name = ?",
		name,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

func (s *Store) loadTanks(ctx context.Context, rec *MatchRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, color, bot, points, hits, kills, deaths
		 FROM match_tanks
		 WHERE match_id = ?
		 ORDER BY seat`,
		rec.MatchID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot query tanks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t match.TankResult
		if err := rows.Scan(&t.Name, &t.Color, &t.Bot, &t.Points, &t.Hits, &t.Kills, &t.Deaths); err != nil {
			return fmt.Errorf("storage: cannot scan tank: %w", err)
		}
		rec.Tanks = append(rec.Tanks, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: row iteration error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (*MatchRecord, error) {
	var rec MatchRecord
	var reason string
	var ticks, durationMS int64
	var createdAt any
	if err := row.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.MapID,
		&rec.Seed,
		&reason,
		&rec.Winner,
		&ticks,
		&durationMS,
		&createdAt,
	); err != nil {
		return nil, err
	}
	rec.Reason = match.EndReason(reason)
	rec.Ticks = uint64(ticks)
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
