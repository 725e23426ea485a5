package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Game.MinPlayers != 4 {
		t.Errorf("min players = %d, want 4", cfg.Game.MinPlayers)
	}
	if cfg.Game.MaxRounds != 8 {
		t.Errorf("max rounds = %d, want 8", cfg.Game.MaxRounds)
	}
	if cfg.Game.CodeLength != 6 {
		t.Errorf("code length = %d, want 6", cfg.Game.CodeLength)
	}
	if cfg.Game.TimerMinSeconds != 60 || cfg.Game.TimerMaxSeconds != 120 {
		t.Errorf("timer bounds = %d/%d, want 60/120", cfg.Game.TimerMinSeconds, cfg.Game.TimerMaxSeconds)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MIN_PLAYERS", "6")
	t.Setenv("MAX_ROUNDS", "12")
	t.Setenv("TIMER_MIN_SECONDS", "30")
	t.Setenv("ENV", "production")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Game.MinPlayers != 6 {
		t.Errorf("min players = %d, want 6", cfg.Game.MinPlayers)
	}
	if cfg.Game.MaxRounds != 12 {
		t.Errorf("max rounds = %d, want 12", cfg.Game.MaxRounds)
	}
	if cfg.Game.TimerMinSeconds != 30 {
		t.Errorf("timer min = %d, want 30", cfg.Game.TimerMinSeconds)
	}
	if !cfg.IsProduction() {
		t.Error("env should be production")
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("MIN_PLAYERS", "lots")

	cfg := Load()
	if cfg.Game.MinPlayers != 4 {
		t.Errorf("min players = %d, want default 4", cfg.Game.MinPlayers)
	}
}

func TestSettings_Mapping(t *testing.T) {
	t.Setenv("TIMER_MIN_SECONDS", "45")
	t.Setenv("TIMER_MAX_SECONDS", "90")

	settings := Load().Settings()

	if settings.TimerMin != 45*time.Second {
		t.Errorf("timer min = %v, want 45s", settings.TimerMin)
	}
	if settings.TimerMax != 90*time.Second {
		t.Errorf("timer max = %v, want 90s", settings.TimerMax)
	}
	if settings.MinPlayers != 4 || settings.MaxRounds != 8 {
		t.Errorf("settings = %+v, want defaults for players/rounds", settings)
	}
}

func TestGetAddr(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "3000")

	if addr := Load().GetAddr(); addr != "127.0.0.1:3000" {
		t.Errorf("addr = %q, want %q", addr, "127.0.0.1:3000")
	}
}
