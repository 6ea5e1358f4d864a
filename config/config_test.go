package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nstehr/trooper/rules"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trooper.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
seed: 42
listen:
  websocket: ":9000"
tuning:
  squad_range_factor: 2.0
  heal_priority_threshold: 0.6
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Seed != 42 {
		t.Errorf("LogLevel, Seed = %q, %d; want debug, 42", cfg.LogLevel, cfg.Seed)
	}
	if cfg.Listen.WebSocket != ":9000" || cfg.Listen.Socket != Default().Listen.Socket {
		t.Errorf("Listen = %+v", cfg.Listen)
	}
	if cfg.Tuning.SquadRangeFactor != 2.0 || cfg.Tuning.HealPriorityThreshold != 0.6 {
		t.Errorf("Tuning overrides not applied: %+v", cfg.Tuning)
	}
	if cfg.Tuning.MedikitWasteTolerance != rules.DefaultTuning().MedikitWasteTolerance {
		t.Errorf("MedikitWasteTolerance = %v, want default", cfg.Tuning.MedikitWasteTolerance)
	}
}

func TestLoadClampsTuning(t *testing.T) {
	path := writeConfig(t, `
tuning:
  squad_range_factor: 50
  critical_health_threshold: -1
  grenade_collateral_radius: 9
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Tuning.SquadRangeFactor != 5 {
		t.Errorf("SquadRangeFactor = %v, want 5", cfg.Tuning.SquadRangeFactor)
	}
	if cfg.Tuning.CriticalHealthThreshold != 0 {
		t.Errorf("CriticalHealthThreshold = %v, want 0", cfg.Tuning.CriticalHealthThreshold)
	}
	if cfg.Tuning.GrenadeCollateralRadius != 3 {
		t.Errorf("GrenadeCollateralRadius = %d, want 3", cfg.Tuning.GrenadeCollateralRadius)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "tuning: [unclosed"},
		{"unknown log level", "log_level: chatty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
}
