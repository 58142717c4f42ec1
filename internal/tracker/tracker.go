// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package tracker owns the live practice session: a state machine driven
// by host queue events that accounts elapsed time per item type, maintains
// the drill queue and history logs as side effects, and publishes the
// in-progress session as a live read model.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/hugomarins/final-drill-and-history/internal/classify"
	"github.com/hugomarins/final-drill-and-history/internal/drill"
	"github.com/hugomarins/final-drill-and-history/internal/history"
	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
)

// Options are the tracker's timing and retention knobs. Tests shrink the
// durations; production uses the defaults.
type Options struct {
	// HeartbeatFreshWindow is how recent a popup heartbeat must be to
	// count as "popup open" when attributing a synthetic queue.
	HeartbeatFreshWindow time.Duration
	// StalePollInterval is how often the watcher checks for a dead popup.
	StalePollInterval time.Duration
	// StaleThreshold is how long heartbeat silence must last before a
	// Final Drill session is force-finalized.
	StaleThreshold time.Duration
	// StartupGrace delays staleness checks after session start, since the
	// popup needs a moment to begin beating.
	StartupGrace time.Duration
	// HistoryCap bounds the persisted session history.
	HistoryCap int
}

func (o Options) withDefaults() Options {
	if o.HeartbeatFreshWindow <= 0 {
		o.HeartbeatFreshWindow = 4 * time.Second
	}
	if o.StalePollInterval <= 0 {
		o.StalePollInterval = 2500 * time.Millisecond
	}
	if o.StaleThreshold <= 0 {
		o.StaleThreshold = 5 * time.Second
	}
	if o.StartupGrace <= 0 {
		o.StartupGrace = 5 * time.Second
	}
	if o.HistoryCap <= 0 {
		o.HistoryCap = 100
	}
	return o
}

// Tracker is the session state machine. Exactly one session is live at a
// time; every transition republishes the live read model.
type Tracker struct {
	host    host.Host
	st      *storage.Storage
	queue   *drill.Queue
	signals *drill.Signals
	logs    *history.Logs
	log     *logrus.Logger
	clock   clockwork.Clock
	opts    Options

	mu        sync.Mutex
	session   *PracticeSession
	cardStart map[string]int64 // epoch ms, keyed by card id
	incStart  int64            // epoch ms; 0 = no open incremental timer
}

// New wires a Tracker. A nil clock means the real one; a nil logger means
// logrus standard.
func New(h host.Host, st *storage.Storage, queue *drill.Queue, signals *drill.Signals, logs *history.Logs, log *logrus.Logger, clock clockwork.Clock, opts Options) *Tracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		host:      h,
		st:        st,
		queue:     queue,
		signals:   signals,
		logs:      logs,
		log:       log,
		clock:     clock,
		opts:      opts.withDefaults(),
		cardStart: make(map[string]int64),
	}
}

// HandleEvent dispatches one host event. Handler failures are logged and
// swallowed here: a bad event degrades its own bookkeeping and nothing
// else.
func (t *Tracker) HandleEvent(ctx context.Context, ev host.Event) {
	var err error
	switch e := ev.(type) {
	case host.QueueEnter:
		err = t.onEnter(ctx, e)
	case host.QueueLoadCard:
		err = t.onLoadCard(ctx, e)
	case host.QueueCompleteCard:
		err = t.onCompleteCard(ctx, e)
	case host.QueueExit:
		err = t.onExit(ctx)
	case host.GlobalOpenRem:
		err = t.onOpenRem(ctx, e)
	default:
		t.log.WithField("event", host.Name(ev)).Debug("ignoring unknown event")
		return
	}
	if err != nil {
		t.log.WithField("event", host.Name(ev)).WithError(err).Warn("event handled with degraded bookkeeping")
	}
}

// LiveSession returns a copy of the in-progress session, or nil when idle.
func (t *Tracker) LiveSession() *PracticeSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Clone()
}

// ForceSave finalizes the live session outside the normal lifecycle, e.g.
// when the popup UI closes without a queue-exit event. Idempotent: calling
// it while idle does nothing.
func (t *Tracker) ForceSave(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalizeLocked(ctx)
}

// Sessions reads the persisted session history, most recent first.
func (t *Tracker) Sessions(ctx context.Context) ([]PracticeSession, error) {
	var sessions []PracticeSession
	if _, err := storage.GetJSON(ctx, t.st.Synced, storage.KeyPracticedQueueHistory, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// onEnter starts a session. An already-live session is finalized first:
// entering again means the prior session truly ended, even if its exit
// event was lost.
func (t *Tracker) onEnter(ctx context.Context, e host.QueueEnter) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil {
		if err := t.finalizeLocked(ctx); err != nil {
			t.log.WithError(err).Warn("finalize on reentry failed; starting fresh session anyway")
		}
	}

	now := t.clock.Now()
	kb := t.knowledgeBase(ctx)

	var queueID, label string
	scope := classify.ClassifyScope(e.SubQueueID)
	if scope.Synthetic {
		label = t.syntheticLabel(ctx, now, classify.LabelAdHocSession)
	} else {
		queueID = scope.ID
		label = classify.ResolveScopeLabel(ctx, t.host, scope)
	}

	t.session = &PracticeSession{
		ID:        uuid.New().String(),
		StartTime: now.UnixMilli(),
		QueueID:   queueID,
		ScopeName: label,
		KBID:      kb.ID,
	}
	t.cardStart = make(map[string]int64)
	t.incStart = 0
	t.publishLocked(ctx)
	return nil
}

// onLoadCard accounts the newly shown item. With no live session (the
// enter event never arrived, common on constrained platforms) a minimal
// session is synthesized first.
func (t *Tracker) onLoadCard(ctx context.Context, e host.QueueLoadCard) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if t.session == nil {
		t.lazyInitLocked(ctx, now)
	}

	screen, err := t.host.QueueScreenType(ctx)
	if err != nil {
		t.log.WithError(err).Debug("screen type unavailable; classifying by payload")
		screen = host.ScreenUnknown
	}

	if classify.ClassifyLoadedItem(screen, e) == classify.ItemIncremental {
		t.closeIncrementalLocked(now)
		t.session.IncRemCount++
		t.incStart = now.UnixMilli()
		t.upgradeLabelLocked(ctx, e.RemID)
		t.publishLocked(ctx)
		return nil
	}

	// Flashcard path.
	t.closeIncrementalLocked(now)
	if e.CardID == "" {
		t.publishLocked(ctx)
		return nil
	}
	t.cardStart[e.CardID] = now.UnixMilli()

	t.session.PreviousCard = t.session.CurrentCard
	t.session.CurrentCard = t.cardSnapshot(ctx, e.CardID)
	if prev := t.session.PreviousCard; prev != nil {
		if err := t.signals.SetPreviousCard(ctx, prev.CardID); err != nil {
			t.log.WithError(err).Debug("previous-card signal not updated")
		}
	}
	if err := t.signals.SetCurrentCard(ctx, e.CardID); err != nil {
		t.log.WithError(err).Debug("current-card signal not updated")
	}

	// A "Final Drill" session must only show drilled cards. A different
	// embedded queue opening inside the popup surfaces here as a loaded
	// card that is not in the drill queue.
	if t.session.ScopeName == classify.LabelFinalDrill {
		kb := t.knowledgeBase(ctx)
		in, err := t.queue.Contains(ctx, e.CardID, kb.ID, kb.IsPrimary)
		if err != nil {
			t.log.WithError(err).Debug("drill membership check failed; keeping label")
		} else if !in {
			t.session.ScopeName = classify.LabelAdHocSession
		}
	}

	t.publishLocked(ctx)
	return nil
}

// onCompleteCard attributes elapsed time for a rated card and drives the
// drill-queue and flashcard-history side effects.
func (t *Tracker) onCompleteCard(ctx context.Context, e host.QueueCompleteCard) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	var elapsed int64

	if t.session != nil {
		if start, ok := t.cardStart[e.CardID]; ok && e.CardID != "" {
			elapsed = now.UnixMilli() - start
			t.session.FlashcardTimeMs += elapsed
			t.session.TotalTimeMs += elapsed
			t.session.FlashcardCount++
			if e.Score == host.ScoreAgain {
				t.session.AgainCount++
			}
			delete(t.cardStart, e.CardID)
		} else {
			// Completion without a matching load: recoverable data
			// loss. Fold any dangling incremental timer instead.
			t.closeIncrementalLocked(now)
		}
		t.updateSnapshotsLocked(ctx, e, elapsed)
	}

	if e.CardID != "" {
		kb := t.knowledgeBase(ctx)
		if err := t.queue.OnCardRated(ctx, e.CardID, e.Score, kb.ID, now); err != nil {
			t.log.WithError(err).Warn("drill queue not updated")
		}
		if card, err := t.host.FindCard(ctx, e.CardID); err != nil {
			t.log.WithError(err).Debug("card lookup failed; flashcard history skipped")
		} else if card != nil {
			if err := t.logs.AppendCard(ctx, e.CardID, card.RemID, kb.ID, now); err != nil {
				t.log.WithError(err).Warn("flashcard history not appended")
			}
		}
	}

	if t.session != nil {
		t.publishLocked(ctx)
	}
	return nil
}

func (t *Tracker) onExit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalizeLocked(ctx)
}

func (t *Tracker) onOpenRem(ctx context.Context, e host.GlobalOpenRem) error {
	if e.RemID == "" {
		return nil
	}
	kb := t.knowledgeBase(ctx)
	return t.logs.AppendVisit(ctx, e.RemID, kb.ID, t.clock.Now())
}

// lazyInitLocked synthesizes a session when the enter event was missed. A
// live popup means the drill is running; otherwise this is a session
// restored on a platform that drops enter events.
func (t *Tracker) lazyInitLocked(ctx context.Context, now time.Time) {
	kb := t.knowledgeBase(ctx)
	t.session = &PracticeSession{
		ID:        uuid.New().String(),
		StartTime: now.UnixMilli(),
		ScopeName: t.syntheticLabel(ctx, now, classify.LabelRestoredMobile),
		KBID:      kb.ID,
	}
	t.cardStart = make(map[string]int64)
	t.incStart = 0
}

// syntheticLabel attributes a scope-less session: a fresh popup liveness
// signal means Final Drill, anything else means the fallback.
func (t *Tracker) syntheticLabel(ctx context.Context, now time.Time, fallback string) string {
	fresh, err := t.signals.Fresh(ctx, now, t.opts.HeartbeatFreshWindow)
	if err != nil {
		t.log.WithError(err).Debug("liveness signals unreadable; assuming popup closed")
		return fallback
	}
	if fresh {
		return classify.LabelFinalDrill
	}
	return fallback
}

// upgradeLabelLocked replaces a placeholder label with the incremental
// item's document text when available.
func (t *Tracker) upgradeLabelLocked(ctx context.Context, remID string) {
	if remID == "" || !classify.IsPlaceholderLabel(t.session.ScopeName) {
		return
	}
	label := classify.ResolveScopeLabel(ctx, t.host, classify.Scope{ID: remID})
	if label != classify.LabelUntitled {
		t.session.ScopeName = label
	}
}

// closeIncrementalLocked folds an open incremental timer into the session
// counters and clears it.
func (t *Tracker) closeIncrementalLocked(now time.Time) {
	if t.incStart == 0 || t.session == nil {
		return
	}
	elapsed := now.UnixMilli() - t.incStart
	if elapsed > 0 {
		t.session.IncRemTimeMs += elapsed
		t.session.TotalTimeMs += elapsed
	}
	t.incStart = 0
}

// cardSnapshot gathers a card's scheduling facts for the live dashboard.
// Lookup failures yield a partial snapshot rather than none.
func (t *Tracker) cardSnapshot(ctx context.Context, cardID string) *CardSnapshot {
	snap := &CardSnapshot{CardID: cardID}
	card, err := t.host.FindCard(ctx, cardID)
	if err != nil {
		t.log.WithError(err).Debug("card lookup failed; partial snapshot")
		return snap
	}
	if card == nil {
		return snap
	}
	if len(card.Repetitions) > 0 {
		snap.FirstRepTime = card.Repetitions[0].Date
	}
	if card.NextRepetitionTime > card.LastRepetitionTime && card.LastRepetitionTime > 0 {
		snap.IntervalMs = card.NextRepetitionTime - card.LastRepetitionTime
	}
	for _, rep := range card.Repetitions {
		if rep.Score == host.ScoreTooEarly {
			continue
		}
		snap.PriorTimeMs += rep.ResponseTimeMs
		snap.PriorReps++
	}
	return snap
}

// updateSnapshotsLocked folds a rating into whichever snapshot tracks the
// rated card, and refreshes its projected next interval. Too-early
// ratings are excluded from both.
func (t *Tracker) updateSnapshotsLocked(ctx context.Context, e host.QueueCompleteCard, elapsed int64) {
	if e.Score == host.ScoreTooEarly || e.CardID == "" {
		return
	}
	snap := t.matchSnapshotLocked(e.CardID)
	if snap == nil {
		return
	}
	snap.PriorTimeMs += elapsed
	snap.PriorReps++

	// The rated card becomes "previous" once the next card loads; project
	// its next interval from the freshly updated schedule.
	card, err := t.host.FindCard(ctx, e.CardID)
	if err != nil || card == nil {
		return
	}
	if card.NextRepetitionTime > card.LastRepetitionTime && card.LastRepetitionTime > 0 {
		snap.NextIntervalMs = card.NextRepetitionTime - card.LastRepetitionTime
	}
}

func (t *Tracker) matchSnapshotLocked(cardID string) *CardSnapshot {
	if cur := t.session.CurrentCard; cur != nil && cur.CardID == cardID {
		return cur
	}
	if prev := t.session.PreviousCard; prev != nil && prev.CardID == cardID {
		return prev
	}
	return nil
}

// finalizeLocked ends the live session: stamps the end time, folds any
// open incremental timer, recomputes the total from its parts (the sum is
// authoritative; incremental additions can drift), persists non-empty
// sessions to the capped history, and clears all transient state.
func (t *Tracker) finalizeLocked(ctx context.Context) error {
	if t.session == nil {
		return nil
	}
	now := t.clock.Now()
	s := t.session
	s.EndTime = now.UnixMilli()
	t.closeIncrementalLocked(now)
	s.TotalTimeMs = s.FlashcardTimeMs + s.IncRemTimeMs

	var persistErr error
	if !s.Empty() {
		var sessions []PracticeSession
		if _, err := storage.GetJSON(ctx, t.st.Synced, storage.KeyPracticedQueueHistory, &sessions); err != nil {
			persistErr = err
		} else {
			sessions = append([]PracticeSession{*s}, sessions...)
			if len(sessions) > t.opts.HistoryCap {
				sessions = sessions[:t.opts.HistoryCap]
			}
			persistErr = storage.SetJSON(ctx, t.st.Synced, storage.KeyPracticedQueueHistory, sessions)
		}
	}

	t.session = nil
	t.cardStart = make(map[string]int64)
	t.incStart = 0
	t.publishLocked(ctx)
	if err := t.signals.ClearBeat(ctx); err != nil {
		t.log.WithError(err).Debug("heartbeat not cleared")
	}
	return persistErr
}

// publishLocked writes the live read model (or clears it while idle).
func (t *Tracker) publishLocked(ctx context.Context) {
	if err := storage.SetJSON(ctx, t.st.Session, storage.KeyActiveSession, t.session); err != nil {
		t.log.WithError(err).Debug("live session not published")
	}
}

func (t *Tracker) knowledgeBase(ctx context.Context) host.KnowledgeBase {
	kb, err := t.host.CurrentKnowledgeBase(ctx)
	if err != nil {
		t.log.WithError(err).Debug("knowledge base unavailable")
		return host.KnowledgeBase{}
	}
	return kb
}
