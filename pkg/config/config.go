// Package config loads viewer configuration from a YAML file, falling
// back to defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tangential/tangential/pkg/layout"
	"github.com/tangential/tangential/pkg/nav"
)

// Config is the full viewer configuration.
type Config struct {
	// DBPath overrides the default database location.
	DBPath string `yaml:"db_path"`

	// Layout holds the spacing constants for the tree canvas.
	Layout layout.Config `yaml:"layout"`

	// RankTolerance is the vertical distance within which two nodes
	// count as the same visual rank for Left/Right navigation.
	RankTolerance float64 `yaml:"rank_tolerance"`

	// DebounceMs is the file-watch debounce window in milliseconds.
	DebounceMs int `yaml:"debounce_ms"`

	// GlamourStyle is the markdown rendering style for transcripts
	// ("dark", "light", "notty", ...).
	GlamourStyle string `yaml:"glamour_style"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:        layout.DefaultConfig(),
		RankTolerance: nav.DefaultRankTolerance,
		DebounceMs:    250,
		GlamourStyle:  "dark",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "tangential", "config.yaml"), nil
}

// Load reads the config file at path, layering it over the defaults. A
// missing file is not an error: defaults are returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Zero values from a sparse file fall back to defaults.
	def := Default()
	if cfg.Layout.NodeWidth <= 0 {
		cfg.Layout.NodeWidth = def.Layout.NodeWidth
	}
	if cfg.Layout.NodeHeight <= 0 {
		cfg.Layout.NodeHeight = def.Layout.NodeHeight
	}
	if cfg.Layout.RankSpacing <= 0 {
		cfg.Layout.RankSpacing = def.Layout.RankSpacing
	}
	if cfg.Layout.SiblingSpacing <= 0 {
		cfg.Layout.SiblingSpacing = def.Layout.SiblingSpacing
	}
	if cfg.Layout.Margin < 0 {
		cfg.Layout.Margin = def.Layout.Margin
	}
	if cfg.RankTolerance <= 0 {
		cfg.RankTolerance = def.RankTolerance
	}
	if cfg.DebounceMs <= 0 {
		cfg.DebounceMs = def.DebounceMs
	}
	if cfg.GlamourStyle == "" {
		cfg.GlamourStyle = def.GlamourStyle
	}

	return cfg, nil
}

// Debounce returns the debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
