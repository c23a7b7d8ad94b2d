package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Board.SnapMinutes != 15 {
		t.Errorf("default snap = %d, want 15", cfg.Board.SnapMinutes)
	}
	if cfg.Board.DebounceMS != 300 {
		t.Errorf("default debounce = %d, want 300", cfg.Board.DebounceMS)
	}
}

func TestViewsTableOrdering(t *testing.T) {
	v := Default().Views
	if !(v.PixelsPerHour("day") > v.PixelsPerHour("week") && v.PixelsPerHour("week") > v.PixelsPerHour("month")) {
		t.Error("coarser views must have fewer pixels per hour")
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom missing file: %v", err)
	}
	if cfg.Board.View != "day" {
		t.Errorf("view = %q, want day", cfg.Board.View)
	}
}

func TestLoadFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[board]
view = "week"
snap_minutes = 30

[views.week]
pixels_per_hour = 2.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Board.View != "week" || cfg.Board.SnapMinutes != 30 {
		t.Errorf("overlay not applied: %+v", cfg.Board)
	}
	if cfg.Views.Week.PixelsPerHour != 2.0 {
		t.Errorf("week pph = %v, want 2.0", cfg.Views.Week.PixelsPerHour)
	}
	// Untouched sections keep defaults.
	if cfg.Board.DebounceMS != 300 {
		t.Errorf("debounce = %d, want default 300", cfg.Board.DebounceMS)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SHOPBOARD_VIEW", "month")
	t.Setenv("SHOPBOARD_SNAP_MINUTES", "5")
	t.Setenv("SHOPBOARD_DB_PATH", "/tmp/board.db")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Board.View != "month" {
		t.Errorf("view = %q, want month", cfg.Board.View)
	}
	if cfg.Board.SnapMinutes != 5 {
		t.Errorf("snap = %d, want 5", cfg.Board.SnapMinutes)
	}
	if cfg.Storage.DBPath != "/tmp/board.db" {
		t.Errorf("db path = %q", cfg.Storage.DBPath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad view", func(c *Config) { c.Board.View = "quarter" }},
		{"zero snap", func(c *Config) { c.Board.SnapMinutes = 0 }},
		{"huge snap", func(c *Config) { c.Board.SnapMinutes = 90 }},
		{"zero lane height", func(c *Config) { c.Board.LaneHeight = 0 }},
		{"negative debounce", func(c *Config) { c.Board.DebounceMS = -1 }},
		{"zero density", func(c *Config) { c.Views.Day.PixelsPerHour = 0 }},
		{"capacity over 24h", func(c *Config) { c.Capacity.DayHours = 30 }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Board.View = "week"
	cfg.Storage.DBPath = "/tmp/x.db"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Board.View != "week" {
		t.Errorf("round trip view = %q", loaded.Board.View)
	}
}
