// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hugomarins/final-drill-and-history/internal/cmd"
	"github.com/hugomarins/final-drill-and-history/internal/config"
	"github.com/hugomarins/final-drill-and-history/internal/drill"
	"github.com/hugomarins/final-drill-and-history/internal/history"
	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/store"
	"github.com/hugomarins/final-drill-and-history/internal/tracker"
)

func main() {
	cfg, err := config.Load(os.Getenv("FINAL_DRILL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "final-drill: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if os.Getenv("FINAL_DRILL_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	// Synced tier: durable, shared across runs. The session tier is
	// per-process scratch state, always in memory.
	var synced store.KVStore

	switch cfg.Storage.Backend {
	case "sqlite", "":
		// If SQLite fails (missing dir, corruption, permissions), fall
		// back to an in-memory store so the tool remains operational
		// without persistence.
		path := cfg.Storage.Path
		if path == "" {
			path = store.DefaultDBPath()
		}
		kv, err := store.OpenSQLiteStore(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: cannot open SQLite database: %v\n", err)
			fmt.Fprintln(os.Stderr, "         falling back to in-memory store (no persistence)")
			synced = store.NewMemoryStore()
		} else {
			defer kv.Close()
			synced = kv
		}

	case "memory":
		synced = store.NewMemoryStore()

	default:
		fmt.Fprintf(os.Stderr, "final-drill: unknown storage backend %q (choose sqlite or memory)\n", cfg.Storage.Backend)
		os.Exit(1)
	}

	session := store.NewMemoryStore()
	st := storage.New(synced, session)

	h := host.NewStaticHost(host.KnowledgeBase{ID: "primary", IsPrimary: true})
	queue := drill.NewQueue(synced)
	signals := drill.NewSignals(session)
	logs := history.NewLogs(synced, cfg.History.MaxEntries)

	trk := tracker.New(h, st, queue, signals, logs, log, nil, tracker.Options{
		HeartbeatFreshWindow: cfg.Tracker.HeartbeatFreshWindow,
		StalePollInterval:    cfg.Tracker.StalePollInterval,
		StaleThreshold:       cfg.Tracker.StaleThreshold,
		StartupGrace:         cfg.Tracker.StartupGrace,
		HistoryCap:           cfg.Tracker.SessionHistoryCap,
	})

	app := &cmd.App{
		Cfg:     cfg,
		Host:    h,
		Storage: st,
		Queue:   queue,
		Signals: signals,
		Logs:    logs,
		Tracker: trk,
		Log:     log,
	}

	root := cmd.NewRootCmd(app)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
