// Package config handles configuration loading from files, defaults, and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Board    BoardConfig    `toml:"board"`
	Views    ViewsConfig    `toml:"views"`
	Capacity CapacityConfig `toml:"capacity"`
	Storage  StorageConfig  `toml:"storage"`
	LLM      LLMConfig      `toml:"llm"`
}

// BoardConfig holds the board geometry and interaction settings. These are
// the per-board constants the drag math depends on, kept out of the
// renderer so the mapping stays testable.
type BoardConfig struct {
	View         string `toml:"view"`          // initial view mode: day, week, month
	SnapMinutes  int    `toml:"snap_minutes"`  // drag snap interval
	LaneHeight   int    `toml:"lane_height"`   // rows per machine lane
	HeaderHeight int    `toml:"header_height"` // rows above the first lane
	LabelWidth   int    `toml:"label_width"`   // width of the machine-label column
	DebounceMS   int    `toml:"debounce_ms"`   // quiet period before authoritative validation
}

// ViewConfig holds the pixel density for one view mode.
type ViewConfig struct {
	PixelsPerHour float64 `toml:"pixels_per_hour"`
}

// ViewsConfig is the per-view-mode configuration table. Coarser
// granularity gets fewer pixels per hour so the whole window fits.
type ViewsConfig struct {
	Day   ViewConfig `toml:"day"`
	Week  ViewConfig `toml:"week"`
	Month ViewConfig `toml:"month"`
}

// PixelsPerHour returns the density for a view mode name.
func (v ViewsConfig) PixelsPerHour(mode string) float64 {
	switch strings.ToLower(mode) {
	case "week":
		return v.Week.PixelsPerHour
	case "month":
		return v.Month.PixelsPerHour
	default:
		return v.Day.PixelsPerHour
	}
}

// CapacityConfig holds the authoritative validator's capacity rule.
type CapacityConfig struct {
	DayHours float64 `toml:"day_hours"` // bookable hours per machine per day
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LLMConfig holds the optional resolution-advisor provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Board: BoardConfig{
			View:         "day",
			SnapMinutes:  15,
			LaneHeight:   2,
			HeaderHeight: 2,
			LabelWidth:   14,
			DebounceMS:   300,
		},
		Views: ViewsConfig{
			Day:   ViewConfig{PixelsPerHour: 8},
			Week:  ViewConfig{PixelsPerHour: 1.5},
			Month: ViewConfig{PixelsPerHour: 0.5},
		},
		Capacity: CapacityConfig{
			DayHours: 16, // two shifts
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "shopboard.db"
	}
	return filepath.Join(home, ".local", "share", "shopboard", "shopboard.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "shopboard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults
// and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path. It starts with
// defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SHOPBOARD_VIEW"); v != "" {
		cfg.Board.View = v
	}
	if v := os.Getenv("SHOPBOARD_SNAP_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Board.SnapMinutes = n
		}
	}
	if v := os.Getenv("SHOPBOARD_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Board.DebounceMS = n
		}
	}
	if v := os.Getenv("SHOPBOARD_CAPACITY_DAY_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Capacity.DayHours = f
		}
	}
	if v := os.Getenv("SHOPBOARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("SHOPBOARD_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("SHOPBOARD_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("SHOPBOARD_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validViews = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validViews[strings.ToLower(c.Board.View)] {
		return fmt.Errorf("invalid view mode: %q", c.Board.View)
	}
	if c.Board.SnapMinutes <= 0 || c.Board.SnapMinutes > 60 {
		return errors.New("snap_minutes must be between 1 and 60")
	}
	if c.Board.LaneHeight < 1 {
		return errors.New("lane_height must be at least 1")
	}
	if c.Board.HeaderHeight < 1 {
		return errors.New("header_height must be at least 1")
	}
	if c.Board.LabelWidth < 4 {
		return errors.New("label_width must be at least 4")
	}
	if c.Board.DebounceMS < 0 {
		return errors.New("debounce_ms must not be negative")
	}
	for _, mode := range []string{"day", "week", "month"} {
		if c.Views.PixelsPerHour(mode) <= 0 {
			return fmt.Errorf("%s pixels_per_hour must be positive", mode)
		}
	}
	if c.Capacity.DayHours <= 0 || c.Capacity.DayHours > 24 {
		return errors.New("capacity day_hours must be between 0 and 24")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
