// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package cmd wires the plugin's engine behind a CLI: a long-running
// event-loop command plus inspection commands over the persisted state.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/config"
	"github.com/hugomarins/final-drill-and-history/internal/drill"
	"github.com/hugomarins/final-drill-and-history/internal/history"
	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/tracker"
)

// App bundles the wired engine pieces the commands operate on.
type App struct {
	Cfg     *config.Config
	Host    host.Host
	Storage *storage.Storage
	Queue   *drill.Queue
	Signals *drill.Signals
	Logs    *history.Logs
	Tracker *tracker.Tracker
	Log     *logrus.Logger
}

// NewRootCmd creates the root command for final-drill.
func NewRootCmd(app *App) *cobra.Command {

	root := &cobra.Command{
		Use:   "final-drill",
		Short: "Track practice sessions and re-drill weak flashcards",
		Long: `Session tracking, Final Drill queue, and review history.

final-drill provides tools to:
- Run the session tracker against a host event stream
- Inspect and maintain the Final Drill queue of weak cards
- Browse navigation and flashcard history
- Aggregate practice statistics by period
- Export session records for analysis`,
	}

	root.AddCommand(newRunCmd(app))
	root.AddCommand(newDrillCmd(app))
	root.AddCommand(newSessionsCmd(app))
	root.AddCommand(newHistoryCmd(app))
	root.AddCommand(newStatsCmd(app))
	root.AddCommand(newExportCmd(app))

	return root
}
