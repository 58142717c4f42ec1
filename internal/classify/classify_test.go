// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package classify

import (
	"context"
	"testing"

	"github.com/hugomarins/final-drill-and-history/internal/host"
)

func TestClassifyLoadedItem(t *testing.T) {
	tests := []struct {
		name   string
		screen host.ScreenType
		cardID string
		want   ItemKind
	}{
		{"plugin screen is incremental", host.ScreenPlugin, "c1", ItemIncremental},
		{"plugin screen without card is incremental", host.ScreenPlugin, "", ItemIncremental},
		{"flashcard screen is flashcard", host.ScreenFlashcard, "c1", ItemFlashcard},
		{"unknown screen with card is flashcard", host.ScreenUnknown, "c1", ItemFlashcard},
		{"unknown screen without card is incremental", host.ScreenUnknown, "", ItemIncremental},
	}
	for _, tt := range tests {
		got := ClassifyLoadedItem(tt.screen, host.QueueLoadCard{CardID: tt.cardID})
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyScope(t *testing.T) {
	if s := ClassifyScope(""); !s.Synthetic {
		t.Error("empty id should be synthetic")
	}
	if s := ClassifyScope("0.8533"); !s.Synthetic {
		t.Error("generated id should be synthetic")
	}
	if s := ClassifyScope("0.123456789"); !s.Synthetic {
		t.Error("long generated id should be synthetic")
	}
	s := ClassifyScope("docAbc123")
	if s.Synthetic {
		t.Error("document id should not be synthetic")
	}
	if s.ID != "docAbc123" {
		t.Errorf("scope ID: got %q", s.ID)
	}
}

func TestResolveScopeLabel(t *testing.T) {
	ctx := context.Background()
	h := host.NewStaticHost(host.KnowledgeBase{ID: "kb1", IsPrimary: true})
	h.PutRem(&host.Rem{ID: "r1", Text: "Organic Chemistry"})
	h.PutRem(&host.Rem{ID: "r2", Text: "   "})

	if got := ResolveScopeLabel(ctx, h, Scope{ID: "r1"}); got != "Organic Chemistry" {
		t.Errorf("resolved label: got %q", got)
	}
	if got := ResolveScopeLabel(ctx, h, Scope{ID: "r2"}); got != LabelUntitled {
		t.Errorf("whitespace title: got %q, want %q", got, LabelUntitled)
	}
	if got := ResolveScopeLabel(ctx, h, Scope{ID: "missing"}); got != LabelUntitled {
		t.Errorf("missing rem: got %q, want %q", got, LabelUntitled)
	}
	if got := ResolveScopeLabel(ctx, h, Scope{Synthetic: true}); got != LabelUntitled {
		t.Errorf("synthetic scope: got %q, want %q", got, LabelUntitled)
	}
}

func TestIsPlaceholderLabel(t *testing.T) {
	for _, label := range []string{"", LabelUntitled, LabelAdHocSession} {
		if !IsPlaceholderLabel(label) {
			t.Errorf("%q should be a placeholder", label)
		}
	}
	for _, label := range []string{LabelFinalDrill, "Organic Chemistry"} {
		if IsPlaceholderLabel(label) {
			t.Errorf("%q should not be a placeholder", label)
		}
	}
}
