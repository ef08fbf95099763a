package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Zone.XMin != 40 || cfg.Zone.XMax != 80 {
		t.Errorf("zone = [%g, %g], want [40, 80]", cfg.Zone.XMin, cfg.Zone.XMax)
	}
	if cfg.Pitch.FinalThirdX != 80 {
		t.Errorf("final third x = %g, want 80", cfg.Pitch.FinalThirdX)
	}
	if cfg.Bypass.TimeSeconds != 10 || cfg.Bypass.MaxPasses != 3 {
		t.Errorf("bypass budgets = (%g, %d), want (10, 3)", cfg.Bypass.TimeSeconds, cfg.Bypass.MaxPasses)
	}
	if len(cfg.Teams) == 0 {
		t.Error("default team table must not be empty")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
dataset:
  team_name: Liverpool
  season: "2025-26"
zone:
  x_min: 35
  x_max: 85
bypass:
  time_seconds: 8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dataset.TeamName != "Liverpool" {
		t.Errorf("team = %q, want Liverpool", cfg.Dataset.TeamName)
	}
	if cfg.Zone.XMin != 35 || cfg.Zone.XMax != 85 {
		t.Errorf("zone = [%g, %g], want [35, 85]", cfg.Zone.XMin, cfg.Zone.XMax)
	}
	if cfg.Bypass.TimeSeconds != 8 {
		t.Errorf("time budget = %g, want 8", cfg.Bypass.TimeSeconds)
	}
	// Untouched sections keep their defaults.
	if cfg.Bypass.MaxPasses != 3 {
		t.Errorf("pass budget = %d, want default 3", cfg.Bypass.MaxPasses)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestLoad_InvalidZoneFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
zone:
  x_min: 90
  x_max: 40
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for an inverted zone window")
	}
}

func TestResolveTeam(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := cfg.ResolveTeam("Barcelona")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 217 {
		t.Errorf("Barcelona id = %d, want 217", id)
	}

	_, err = cfg.ResolveTeam("Castellón")
	if err == nil {
		t.Fatal("expected error for an unknown team name")
	}
	if !errors.Is(err, ErrUnknownTeam) {
		t.Errorf("error = %v, want ErrUnknownTeam", err)
	}
}

func TestValidate_BadBudgets(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Bypass.TimeSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a zero time budget")
	}

	cfg.Bypass.TimeSeconds = 10
	cfg.Bypass.MaxPasses = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for a negative pass budget")
	}
}
