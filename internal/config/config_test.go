package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := decode(DefaultRulesYAML())
	if err != nil {
		t.Fatalf("decode embedded defaults: %v", err)
	}
	if cfg != DefaultRulesConfig() {
		t.Errorf("embedded rules.yaml = %+v, expected %+v", cfg, DefaultRulesConfig())
	}
}

func TestLoadRulesCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := []byte("collisions:\n  damage: 50\n  symmetric_meet: true\nscoring:\n  points_to_win: 10\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	rules := cfg.Rules()
	if rules.CollisionDamage != 50 || !rules.SymmetricMeetDamage {
		t.Errorf("collision rules = %d/%v, expected 50/true", rules.CollisionDamage, rules.SymmetricMeetDamage)
	}
	if rules.PointsToWin != 10 {
		t.Errorf("PointsToWin = %d, expected 10", rules.PointsToWin)
	}
	if rules.MissileHealthDamage != 400 {
		t.Errorf("MissileHealthDamage = %d, expected the default 400", rules.MissileHealthDamage)
	}
}

func TestLoadRulesCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("tank:\n  max_health: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(bad); err == nil {
		t.Error("expected validation error for negative max_health")
	}
}

func TestParsePreset(t *testing.T) {
	testCases := []struct {
		in       string
		expected DifficultyPreset
		wantErr  bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{"hard", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}

	for _, tc := range testCases {
		got, err := ParsePreset(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.expected {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "points", MaxAt: 10},
	}
	d := NewDifficultyManager(cfg)

	testCases := []struct {
		points   int
		expected float64
	}{
		{-5, 0.2},
		{0, 0.2},
		{5, 0.6},
		{10, 1.0},
		{50, 1.0},
	}
	for _, tc := range testCases {
		if got := d.Level(tc.points, 0); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("Level(%d) = %v, expected %v", tc.points, got, tc.expected)
		}
	}

	cfg.Enabled = false
	if got := NewDifficultyManager(cfg).Level(10, 0); got != 0.2 {
		t.Errorf("disabled Level = %v, expected 0.2", got)
	}
}

func TestSkillAtBounds(t *testing.T) {
	easy := SkillAt(0, 14)
	hard := SkillAt(1, 14)

	if easy.RadarPower != 3 || hard.RadarPower != 14 {
		t.Errorf("radar power easy/hard = %d/%d, expected 3/14", easy.RadarPower, hard.RadarPower)
	}
	if easy.FireRange >= hard.FireRange {
		t.Errorf("fire range should grow with level: %d >= %d", easy.FireRange, hard.FireRange)
	}
	if hard.Hesitation != 0 {
		t.Errorf("hard Hesitation = %v, expected 0", hard.Hesitation)
	}
	if easy.ShieldChance >= hard.ShieldChance {
		t.Errorf("shield chance should grow with level: %v >= %v", easy.ShieldChance, hard.ShieldChance)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultRulesConfig()
	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.8 {
		t.Errorf("hard preset = %+v", cfg.Difficulty)
	}
	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}
}

