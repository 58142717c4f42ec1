// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package drill

import (
	"context"
	"time"

	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/store"
)

// Signals is the popup widget's liveness surface in the session tier. The
// open popup sets the active flag and renews a heartbeat; the tracker reads
// both to attribute synthetic queues and to recover from a popup that
// closed without any lifecycle event.
type Signals struct {
	session store.KVStore
}

// NewSignals creates Signals over the session tier.
func NewSignals(session store.KVStore) *Signals {
	return &Signals{session: session}
}

// SetActive records whether the popup is open.
func (s *Signals) SetActive(ctx context.Context, active bool) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillActive, active)
}

// Active reads the popup-open flag. Missing means false.
func (s *Signals) Active(ctx context.Context) (bool, error) {
	var active bool
	if _, err := storage.GetJSON(ctx, s.session, storage.KeyFinalDrillActive, &active); err != nil {
		return false, err
	}
	return active, nil
}

// Beat renews the heartbeat.
func (s *Signals) Beat(ctx context.Context, now time.Time) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillHeartbeat, now.UnixMilli())
}

// LastBeat reads the heartbeat. Zero means never.
func (s *Signals) LastBeat(ctx context.Context) (int64, error) {
	var ms int64
	if _, err := storage.GetJSON(ctx, s.session, storage.KeyFinalDrillHeartbeat, &ms); err != nil {
		return 0, err
	}
	return ms, nil
}

// ClearBeat resets the heartbeat so a finalized session cannot be
// attributed to a popup that is no longer open.
func (s *Signals) ClearBeat(ctx context.Context) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillHeartbeat, int64(0))
}

// Fresh reports whether the popup looks alive: either the active flag is
// set or the heartbeat landed within the freshness window.
func (s *Signals) Fresh(ctx context.Context, now time.Time, window time.Duration) (bool, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return false, err
	}
	if active {
		return true, nil
	}
	last, err := s.LastBeat(ctx)
	if err != nil {
		return false, err
	}
	return last > 0 && now.UnixMilli()-last <= window.Milliseconds(), nil
}

// SetBlocked suppresses the popup's active signal without closing it.
func (s *Signals) SetBlocked(ctx context.Context, blocked bool) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillBlocked, blocked)
}

// Blocked reads the suppression flag. Missing means false.
func (s *Signals) Blocked(ctx context.Context) (bool, error) {
	var blocked bool
	if _, err := storage.GetJSON(ctx, s.session, storage.KeyFinalDrillBlocked, &blocked); err != nil {
		return false, err
	}
	return blocked, nil
}

// SetCurrentCard records the card the popup is showing.
func (s *Signals) SetCurrentCard(ctx context.Context, cardID string) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillCurrentCard, cardID)
}

// SetPreviousCard records the card the popup showed before this one.
func (s *Signals) SetPreviousCard(ctx context.Context, cardID string) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillPreviousCard, cardID)
}

// TriggerResume notifies the popup's notification surface that the user
// navigated away and should be invited back.
func (s *Signals) TriggerResume(ctx context.Context, now time.Time) error {
	return storage.SetJSON(ctx, s.session, storage.KeyFinalDrillResume, now.UnixMilli())
}
