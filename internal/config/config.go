// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package config loads the plugin's settings: the user-facing drill knobs,
// storage selection, and the tracker timing constants (exposed so tests
// and constrained platforms can tune them).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full settings surface.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Drill   DrillConfig   `yaml:"drill" mapstructure:"drill"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Tracker TrackerConfig `yaml:"tracker" mapstructure:"tracker"`
	Stats   StatsConfig   `yaml:"stats" mapstructure:"stats"`
}

// StorageConfig selects the synced-tier backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Path is the SQLite database file; empty uses the default location.
	Path string `yaml:"path" mapstructure:"path"`
}

// DrillConfig holds the Final Drill settings.
type DrillConfig struct {
	// OldItemThresholdDays flags drilled cards older than this many days.
	OldItemThresholdDays int `yaml:"old_item_threshold" mapstructure:"old_item_threshold"`
	// DisableNotification suppresses the pending-drill notification.
	DisableNotification bool `yaml:"disable_final_drill_notification" mapstructure:"disable_final_drill_notification"`
}

// HistoryConfig bounds the history logs.
type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// TrackerConfig exposes the session tracker's timing constants.
type TrackerConfig struct {
	HeartbeatFreshWindow time.Duration `yaml:"heartbeat_fresh_window" mapstructure:"heartbeat_fresh_window"`
	StalePollInterval    time.Duration `yaml:"stale_poll_interval" mapstructure:"stale_poll_interval"`
	StaleThreshold       time.Duration `yaml:"stale_threshold" mapstructure:"stale_threshold"`
	StartupGrace         time.Duration `yaml:"startup_grace" mapstructure:"startup_grace"`
	SessionHistoryCap    int           `yaml:"session_history_cap" mapstructure:"session_history_cap"`
}

// StatsConfig tunes aggregation.
type StatsConfig struct {
	// WeekStart is the locale's first weekday, e.g. "monday" or "sunday".
	WeekStart string `yaml:"week_start" mapstructure:"week_start"`
}

// DefaultConfigPath returns the config file location under the user's
// config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "final-drill", "config.yaml")
}

// Load reads the config file (when present) over built-in defaults.
// Environment variables prefixed FINAL_DRILL_ override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "")
	v.SetDefault("drill.old_item_threshold", 7)
	v.SetDefault("drill.disable_final_drill_notification", false)
	v.SetDefault("history.max_entries", 100)
	v.SetDefault("tracker.heartbeat_fresh_window", 4*time.Second)
	v.SetDefault("tracker.stale_poll_interval", 2500*time.Millisecond)
	v.SetDefault("tracker.stale_threshold", 5*time.Second)
	v.SetDefault("tracker.startup_grace", 5*time.Second)
	v.SetDefault("tracker.session_history_cap", 100)
	v.SetDefault("stats.week_start", "monday")

	v.SetEnvPrefix("FINAL_DRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigPath()
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		// Missing config file: defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// WeekStartDay maps the configured week start to a weekday, defaulting to
// Monday on unrecognized values.
func (c *Config) WeekStartDay() time.Weekday {
	switch strings.ToLower(c.Stats.WeekStart) {
	case "sunday":
		return time.Sunday
	case "saturday":
		return time.Saturday
	default:
		return time.Monday
	}
}
