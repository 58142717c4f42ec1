// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package drill

import (
	"context"
	"time"

	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/store"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// Queue derives drill membership from completion events. Persisted state
// lives under the synced tier's finalDrillIds key.
type Queue struct {
	synced store.KVStore
}

// NewQueue creates a Queue over the synced tier.
func NewQueue(synced store.KVStore) *Queue {
	return &Queue{synced: synced}
}

// Entries reads the full drill list across all knowledge bases. A missing
// key yields an empty list.
func (q *Queue) Entries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if _, err := storage.GetJSON(ctx, q.synced, storage.KeyFinalDrillIDs, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (q *Queue) save(ctx context.Context, entries []Entry) error {
	return storage.SetJSON(ctx, q.synced, storage.KeyFinalDrillIDs, entries)
}

// OnCardRated maintains membership for a rating: Again/Hard adds the card
// (once per knowledge base), Good or better removes it in either shape.
// TooEarly is not a difficulty judgment and changes nothing.
func (q *Queue) OnCardRated(ctx context.Context, cardID string, score host.Score, kbID string, now time.Time) error {
	if cardID == "" || score == host.ScoreTooEarly {
		return nil
	}

	entries, err := q.Entries(ctx)
	if err != nil {
		return err
	}

	switch {
	case score <= host.ScoreHard:
		for _, e := range entries {
			if e.CardID == cardID {
				return nil // already drilled
			}
		}
		entries = append(entries, Entry{
			CardID:  cardID,
			KBID:    kbID,
			AddedAt: now.UnixMilli(),
		})
	case score >= host.ScoreGood:
		kept := entries[:0]
		for _, e := range entries {
			if e.CardID != cardID {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(entries) {
			return nil
		}
		entries = kept
	default:
		return nil
	}

	return q.save(ctx, entries)
}

// FilterForKB returns the card ids in scope for a knowledge base, in
// stored order.
func FilterForKB(entries []Entry, kbID string, isPrimary bool) []string {
	var ids []string
	for _, e := range entries {
		if e.BelongsTo(kbID, isPrimary) {
			ids = append(ids, e.CardID)
		}
	}
	return ids
}

// CountOld counts in-scope structured entries older than thresholdDays.
// Legacy entries have no added-at stamp and are never old.
func CountOld(entries []Entry, kbID string, isPrimary bool, thresholdDays int, now time.Time) int {
	count := 0
	cutoff := now.UnixMilli() - int64(thresholdDays)*msPerDay
	for _, e := range entries {
		if !e.BelongsTo(kbID, isPrimary) || e.AddedAt == 0 {
			continue
		}
		if e.AddedAt < cutoff {
			count++
		}
	}
	return count
}

// ClearOld removes structured entries in the given knowledge base whose
// added-at is older than thresholdDays. Legacy entries and other knowledge
// bases are untouched. Returns how many entries were removed.
func (q *Queue) ClearOld(ctx context.Context, thresholdDays int, kbID string, now time.Time) (int, error) {
	entries, err := q.Entries(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := now.UnixMilli() - int64(thresholdDays)*msPerDay
	kept := entries[:0]
	for _, e := range entries {
		if !e.Legacy && e.KBID == kbID && e.AddedAt != 0 && e.AddedAt < cutoff {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, q.save(ctx, kept)
}

// ClearAll removes every in-scope entry. Legacy entries are removed only
// when clearing the primary knowledge base.
func (q *Queue) ClearAll(ctx context.Context, kbID string, isPrimary bool) (int, error) {
	entries, err := q.Entries(ctx)
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.BelongsTo(kbID, isPrimary) {
			continue
		}
		kept = append(kept, e)
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, q.save(ctx, kept)
}

// Contains reports whether cardID is currently drilled in the given
// knowledge base. The tracker uses it to detect a different embedded queue
// opening inside the drill popup.
func (q *Queue) Contains(ctx context.Context, cardID, kbID string, isPrimary bool) (bool, error) {
	entries, err := q.Entries(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.CardID == cardID && e.BelongsTo(kbID, isPrimary) {
			return true, nil
		}
	}
	return false, nil
}
