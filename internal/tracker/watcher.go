// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package tracker

import (
	"context"

	"github.com/hugomarins/final-drill-and-history/internal/classify"
)

// RunStaleWatcher polls the popup heartbeat and force-finalizes a Final
// Drill session whose popup died without any lifecycle event. Blocks until
// ctx is done; run it on its own goroutine.
func (t *Tracker) RunStaleWatcher(ctx context.Context) {
	ticker := t.clock.NewTicker(t.opts.StalePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.checkStale(ctx)
		}
	}
}

// checkStale finalizes the live session when the drill popup's heartbeat
// has gone silent past the threshold. Only Final Drill sessions are
// eligible, and only after the startup grace period: the popup needs a
// moment before its first beat.
func (t *Tracker) checkStale(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.session
	if s == nil || s.ScopeName != classify.LabelFinalDrill {
		return
	}
	now := t.clock.Now()
	if now.UnixMilli()-s.StartTime < t.opts.StartupGrace.Milliseconds() {
		return
	}
	last, err := t.signals.LastBeat(ctx)
	if err != nil {
		t.log.WithError(err).Debug("heartbeat unreadable; skipping stale check")
		return
	}
	if last > 0 && now.UnixMilli()-last <= t.opts.StaleThreshold.Milliseconds() {
		return
	}
	t.log.WithField("session", s.ID).Info("drill popup heartbeat stale; finalizing session")
	if err := t.finalizeLocked(ctx); err != nil {
		t.log.WithError(err).Warn("stale finalize failed")
	}
}
