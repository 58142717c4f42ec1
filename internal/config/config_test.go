// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend: got %q", cfg.Storage.Backend)
	}
	if cfg.Drill.OldItemThresholdDays != 7 {
		t.Errorf("old item threshold: got %d", cfg.Drill.OldItemThresholdDays)
	}
	if cfg.History.MaxEntries != 100 {
		t.Errorf("history cap: got %d", cfg.History.MaxEntries)
	}
	if cfg.Tracker.StaleThreshold != 5*time.Second {
		t.Errorf("stale threshold: got %v", cfg.Tracker.StaleThreshold)
	}
	if cfg.WeekStartDay() != time.Monday {
		t.Errorf("week start: got %v", cfg.WeekStartDay())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
storage:
  backend: memory
drill:
  old_item_threshold: 14
stats:
  week_start: sunday
tracker:
  stale_threshold: 30s
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("backend: got %q", cfg.Storage.Backend)
	}
	if cfg.Drill.OldItemThresholdDays != 14 {
		t.Errorf("old item threshold: got %d", cfg.Drill.OldItemThresholdDays)
	}
	if cfg.WeekStartDay() != time.Sunday {
		t.Errorf("week start: got %v", cfg.WeekStartDay())
	}
	if cfg.Tracker.StaleThreshold != 30*time.Second {
		t.Errorf("stale threshold: got %v", cfg.Tracker.StaleThreshold)
	}
	// Unset sections keep their defaults.
	if cfg.History.MaxEntries != 100 {
		t.Errorf("history cap: got %d", cfg.History.MaxEntries)
	}
}

func TestWeekStartDayUnrecognized(t *testing.T) {
	cfg := &Config{Stats: StatsConfig{WeekStart: "someday"}}
	if cfg.WeekStartDay() != time.Monday {
		t.Errorf("unrecognized week start should default to Monday")
	}
}
