// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/hugomarins/final-drill-and-history/internal/host"
	"github.com/hugomarins/final-drill-and-history/internal/storage"
	"github.com/hugomarins/final-drill-and-history/internal/store"
)

func TestAppendVisitDedupAndCap(t *testing.T) {
	ctx := context.Background()
	l := NewLogs(store.NewMemoryStore(), 3)
	now := time.Now()

	// Immediate reopen of the same document stays one entry.
	if err := l.AppendVisit(ctx, "r1", "kb1", now); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendVisit(ctx, "r1", "kb1", now.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	entries, err := l.Visits(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("head dedup: got %d entries, want 1", len(entries))
	}

	// Revisiting after other documents records again; cap drops the tail.
	for i, rem := range []string{"r2", "r3", "r1"} {
		if err := l.AppendVisit(ctx, rem, "kb1", now.Add(time.Duration(i+2)*time.Second)); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ = l.Visits(ctx)
	if len(entries) != 3 {
		t.Fatalf("cap: got %d entries, want 3", len(entries))
	}
	if entries[0].RemID != "r1" || entries[1].RemID != "r3" || entries[2].RemID != "r2" {
		t.Fatalf("order: %+v", entries)
	}
	if entries[0].Key == "" {
		t.Error("entries should carry generated keys")
	}
}

func TestAppendCardDedup(t *testing.T) {
	ctx := context.Background()
	l := NewLogs(store.NewMemoryStore(), 0) // 0 falls back to the default cap
	now := time.Now()

	if err := l.AppendCard(ctx, "c1", "r1", "kb1", now); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendCard(ctx, "c1", "r1", "kb1", now.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendCard(ctx, "c2", "r2", "kb1", now.Add(2*time.Second)); err != nil {
		t.Fatal(err)
	}
	entries, err := l.Cards(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].CardID != "c2" {
		t.Fatalf("newest first: %+v", entries)
	}
}

func TestDeleteVisit(t *testing.T) {
	ctx := context.Background()
	l := NewLogs(store.NewMemoryStore(), 10)
	now := time.Now()

	if err := l.AppendVisit(ctx, "r1", "kb1", now); err != nil {
		t.Fatal(err)
	}
	if err := l.AppendVisit(ctx, "r2", "kb1", now.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	entries, _ := l.Visits(ctx)
	if err := l.DeleteVisit(ctx, entries[1].Key); err != nil {
		t.Fatal(err)
	}
	entries, _ = l.Visits(ctx)
	if len(entries) != 1 || entries[0].RemID != "r2" {
		t.Fatalf("after delete: %+v", entries)
	}

	// Deleting an unknown key is a no-op.
	if err := l.DeleteVisit(ctx, "nope"); err != nil {
		t.Fatal(err)
	}
}

func TestEntryKeyLegacyNumeric(t *testing.T) {
	var e VisitEntry
	if err := json.Unmarshal([]byte(`{"key":0.456,"remId":"r1","time":1700000000000}`), &e); err != nil {
		t.Fatalf("numeric key: %v", err)
	}
	if e.Key != "0.456" {
		t.Fatalf("key: got %q", e.Key)
	}
	if err := json.Unmarshal([]byte(`{"key":"abc","remId":"r1","time":1}`), &e); err != nil {
		t.Fatalf("string key: %v", err)
	}
	if e.Key != "abc" {
		t.Fatalf("key: got %q", e.Key)
	}
}

func TestBackfillVisitsInBatches(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	l := NewLogs(kv, 20)
	h := host.NewStaticHost(host.KnowledgeBase{ID: "kb1", IsPrimary: true})

	var seed []VisitEntry
	for i := 0; i < 7; i++ {
		remID := fmt.Sprintf("r%d", i)
		h.PutRem(&host.Rem{ID: remID, Text: fmt.Sprintf("front %d", i), BackText: "back"})
		seed = append(seed, VisitEntry{Key: EntryKey(remID), RemID: remID, Time: int64(i)})
	}
	if err := storage.SetJSON(ctx, kv, storage.KeyRemHistory, seed); err != nil {
		t.Fatal(err)
	}

	// Batches of five, then the remainder, then done.
	n, err := l.BackfillVisits(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("first pass: got %d, want 5", n)
	}
	n, _ = l.BackfillVisits(ctx, h)
	if n != 2 {
		t.Fatalf("second pass: got %d, want 2", n)
	}
	n, _ = l.BackfillVisits(ctx, h)
	if n != 0 {
		t.Fatalf("third pass: got %d, want 0", n)
	}

	entries, _ := l.Visits(ctx)
	for _, e := range entries {
		if e.V != textSchemaVersion {
			t.Fatalf("entry %s not migrated: %+v", e.Key, e)
		}
		if e.Text == "" {
			t.Fatalf("entry %s has no text", e.Key)
		}
	}
	if entries[0].Text != "front 0 back" {
		t.Fatalf("text: got %q", entries[0].Text)
	}
}

func TestBackfillTreatsDeletedRemAsDone(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	l := NewLogs(kv, 20)
	h := host.NewStaticHost(host.KnowledgeBase{ID: "kb1", IsPrimary: true})

	seed := []CardEntry{{Key: "k1", RemID: "gone", CardID: "c1", Time: 1}}
	if err := storage.SetJSON(ctx, kv, storage.KeyFlashcardHistory, seed); err != nil {
		t.Fatal(err)
	}

	n, err := l.BackfillCards(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deleted rem should still migrate: got %d", n)
	}
	entries, _ := l.Cards(ctx)
	if entries[0].V != textSchemaVersion || entries[0].Text != "" {
		t.Fatalf("deleted rem entry: %+v", entries[0])
	}
	// And it stops re-queueing.
	n, _ = l.BackfillCards(ctx, h)
	if n != 0 {
		t.Fatalf("second pass: got %d, want 0", n)
	}
}

func TestSearchVisitsRanking(t *testing.T) {
	entries := []VisitEntry{
		{Key: "a", Text: "organic chemistry notes", Time: 30},
		{Key: "b", Text: "chemistry homework", Time: 20},
		{Key: "c", Text: "organic chemistry", Time: 10},
		{Key: "d", Text: "history essay", Time: 40},
		{Key: "e", Time: 50}, // no backfilled text, never matches
	}

	got := SearchVisits(entries, "organic chemistry")
	if len(got) != 3 {
		t.Fatalf("matches: got %d, want 3", len(got))
	}
	// Two-token matches first, recency breaks the tie.
	if got[0].Key != "a" || got[1].Key != "c" || got[2].Key != "b" {
		t.Fatalf("order: %s %s %s", got[0].Key, got[1].Key, got[2].Key)
	}

	// Empty query returns everything untouched.
	if got := SearchVisits(entries, "  "); len(got) != len(entries) {
		t.Fatalf("empty query: got %d", len(got))
	}
}
