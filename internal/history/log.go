// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/store"
)

// DefaultCap is the kept-entry limit for each log.
const DefaultCap = 100

// backfillBatch limits how many lookups a single backfill pass performs,
// to avoid overloading the host.
const backfillBatch = 5

// Logs bundles the visited-document and practiced-flashcard logs over the
// synced tier. A shared LRU caches resolved rem text across backfills.
type Logs struct {
	synced store.KVStore
	cap    int
	texts  *lru.Cache[string, string]
}

// NewLogs creates Logs with the given cap (DefaultCap when zero or less).
func NewLogs(synced store.KVStore, capacity int) *Logs {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	cache, _ := lru.New[string, string](4 * capacity)
	return &Logs{synced: synced, cap: capacity, texts: cache}
}

// Visits reads the visited-document log, most recent first.
func (l *Logs) Visits(ctx context.Context) ([]VisitEntry, error) {
	var entries []VisitEntry
	if _, err := storage.GetJSON(ctx, l.synced, storage.KeyRemHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Cards reads the practiced-flashcard log, most recent first.
func (l *Logs) Cards(ctx context.Context) ([]CardEntry, error) {
	var entries []CardEntry
	if _, err := storage.GetJSON(ctx, l.synced, storage.KeyFlashcardHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendVisit records a document visit unless the head already records the
// same document (repeated immediate reopens stay single entries).
func (l *Logs) AppendVisit(ctx context.Context, remID, kbID string, now time.Time) error {
	entries, err := l.Visits(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 && entries[0].RemID == remID {
		return nil
	}
	entry := VisitEntry{
		Key:   EntryKey(uuid.New().String()),
		RemID: remID,
		Time:  now.UnixMilli(),
		KBID:  kbID,
	}
	entries = append([]VisitEntry{entry}, entries...)
	if len(entries) > l.cap {
		entries = entries[:l.cap]
	}
	return storage.SetJSON(ctx, l.synced, storage.KeyRemHistory, entries)
}

// AppendCard records a flashcard completion unless the head already
// records the same card.
func (l *Logs) AppendCard(ctx context.Context, cardID, remID, kbID string, now time.Time) error {
	entries, err := l.Cards(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 && entries[0].CardID == cardID {
		return nil
	}
	entry := CardEntry{
		Key:    EntryKey(uuid.New().String()),
		RemID:  remID,
		CardID: cardID,
		Time:   now.UnixMilli(),
		KBID:   kbID,
	}
	entries = append([]CardEntry{entry}, entries...)
	if len(entries) > l.cap {
		entries = entries[:l.cap]
	}
	return storage.SetJSON(ctx, l.synced, storage.KeyFlashcardHistory, entries)
}

// DeleteVisit removes a visit entry by key.
func (l *Logs) DeleteVisit(ctx context.Context, key EntryKey) error {
	entries, err := l.Visits(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return storage.SetJSON(ctx, l.synced, storage.KeyRemHistory, kept)
}

// DeleteCard removes a flashcard entry by key.
func (l *Logs) DeleteCard(ctx context.Context, key EntryKey) error {
	entries, err := l.Cards(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return storage.SetJSON(ctx, l.synced, storage.KeyFlashcardHistory, kept)
}

func (l *Logs) remText(ctx context.Context, h host.Host, remID string) (string, error) {
	if text, ok := l.texts.Get(remID); ok {
		return text, nil
	}
	rem, err := h.FindRem(ctx, remID)
	if err != nil {
		return "", err
	}
	if rem == nil {
		// Deleted rem: record empty text so the entry stops re-queueing.
		l.texts.Add(remID, "")
		return "", nil
	}
	front, err := h.RichTextToString(ctx, rem.Text)
	if err != nil {
		return "", err
	}
	back, err := h.RichTextToString(ctx, rem.BackText)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(front + " " + back)
	l.texts.Add(remID, text)
	return text, nil
}

// BackfillVisits attaches denormalized text to visit entries that predate
// the text schema, a few at a time. Returns how many entries were updated;
// callers loop until it reports zero.
func (l *Logs) BackfillVisits(ctx context.Context, h host.Host) (int, error) {
	entries, err := l.Visits(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range entries {
		if updated >= backfillBatch {
			break
		}
		if entries[i].V == textSchemaVersion {
			continue
		}
		text, err := l.remText(ctx, h, entries[i].RemID)
		if err != nil {
			continue // lookup miss: retry on a later pass
		}
		entries[i].Text = text
		entries[i].V = textSchemaVersion
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	return updated, storage.SetJSON(ctx, l.synced, storage.KeyRemHistory, entries)
}

// BackfillCards attaches denormalized text to flashcard entries that
// predate the text schema.
func (l *Logs) BackfillCards(ctx context.Context, h host.Host) (int, error) {
	entries, err := l.Cards(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range entries {
		if updated >= backfillBatch {
			break
		}
		if entries[i].V == textSchemaVersion {
			continue
		}
		text, err := l.remText(ctx, h, entries[i].RemID)
		if err != nil {
			continue
		}
		entries[i].Text = text
		entries[i].V = textSchemaVersion
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	return updated, storage.SetJSON(ctx, l.synced, storage.KeyFlashcardHistory, entries)
}
