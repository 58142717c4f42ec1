// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hugomarins/final-drill-and-history/internal/host"
)

func newRunCmd(app *App) *cobra.Command {
	var (
		eventLog string
		replay   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the session tracker against a host event log",
		Long: `Tail a newline-delimited JSON event log written by the host bridge
and feed each event through the session tracker. Runs until interrupted;
the live session is finalized and saved on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventLog == "" {
				return fmt.Errorf("--events is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go app.Tracker.RunStaleWatcher(ctx)

			if err := tailEvents(ctx, app, eventLog, replay); err != nil {
				return err
			}

			// Queue exit is implied by shutdown: close out whatever is live.
			app.Tracker.HandleEvent(context.Background(), host.QueueExit{})
			if err := app.Tracker.ForceSave(context.Background()); err != nil {
				app.Log.WithError(err).Warn("final save failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventLog, "events", "e", "", "Path to the host bridge event log (NDJSON)")
	cmd.Flags().BoolVar(&replay, "replay", false, "Process the log from the beginning instead of tailing new events")

	return cmd
}

// tailEvents follows the event log file, dispatching each complete line.
// The file's directory is watched so rotation and recreation are picked up.
func tailEvents(ctx context.Context, app *App, path string, replay bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var offset int64
	if !replay {
		if info, err := os.Stat(path); err == nil {
			offset = info.Size()
		}
	}

	// Drain anything already past the starting offset before waiting.
	offset = drainEvents(ctx, app, path, offset)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if info, err := os.Stat(path); err == nil && info.Size() < offset {
				// Truncated or rotated: start over from the top.
				offset = 0
			}
			offset = drainEvents(ctx, app, path, offset)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			app.Log.WithError(err).Warn("event log watcher error")
		}
	}
}

// drainEvents reads complete lines from offset onward and dispatches
// them, returning the new offset. Malformed lines are logged and
// skipped so one bad frame cannot stall the stream.
func drainEvents(ctx context.Context, app *App, path string, offset int64) int64 {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			app.Log.WithError(err).Warn("open event log")
		}
		return offset
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		app.Log.WithError(err).Warn("seek event log")
		return offset
	}

	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// Partial trailing line: leave it for the next write.
			return offset
		}
		offset += int64(len(line))

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ev, err := host.DecodeEvent([]byte(line))
		if err != nil {
			app.Log.WithFields(logrus.Fields{"line": truncate(line, 120)}).WithError(err).Warn("skipping bad event frame")
			continue
		}
		app.Tracker.HandleEvent(ctx, ev)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
