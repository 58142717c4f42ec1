// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package classify disambiguates queue event payloads: whether a loaded
// item is a flashcard or an incremental review item, and whether a queue
// identifier names a real document scope or a synthetic one generated by
// the host.
package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/hugomarins/final-drill-and-history/internal/host"
)

// Session labels resolved for queue scopes.
const (
	LabelUntitled       = "Untitled"
	LabelAdHocSession   = "Ad-hoc Session"
	LabelFinalDrill     = "Final Drill"
	LabelRestoredMobile = "Restored Mobile Session"
)

// ItemKind is the classification of a loaded queue item.
type ItemKind int

const (
	ItemFlashcard ItemKind = iota
	ItemIncremental
)

// ClassifyLoadedItem decides the kind of a loaded queue item. The host's
// plugin-content screen always means an incremental item. When the screen
// type is unknown (the host lags after tab switches) the payload shape
// decides: a card id means flashcard, no card id means incremental.
func ClassifyLoadedItem(screen host.ScreenType, payload host.QueueLoadCard) ItemKind {
	if screen == host.ScreenPlugin {
		return ItemIncremental
	}
	if screen == host.ScreenUnknown && payload.CardID == "" {
		return ItemIncremental
	}
	return ItemFlashcard
}

// Synthetic sub-queue ids look like "0." followed by digits; the host uses
// them for generated, non-document scopes.
var syntheticIDPattern = regexp.MustCompile(`^0\.\d+$`)

// Scope is a classified sub-queue identifier.
type Scope struct {
	// ID is the document id; set only for real scopes.
	ID string
	// Synthetic is true for empty, missing, or generated identifiers.
	// Synthetic ids are never persisted as a session's queue scope.
	Synthetic bool
}

// ClassifyScope classifies a queue-enter sub-queue identifier.
func ClassifyScope(subQueueID string) Scope {
	if subQueueID == "" || syntheticIDPattern.MatchString(subQueueID) {
		return Scope{Synthetic: true}
	}
	return Scope{ID: subQueueID}
}

// ResolveScopeLabel looks up a real scope's document title. Lookup misses
// and empty titles both yield LabelUntitled.
func ResolveScopeLabel(ctx context.Context, h host.Host, scope Scope) string {
	if scope.Synthetic || scope.ID == "" {
		return LabelUntitled
	}
	rem, err := h.FindRem(ctx, scope.ID)
	if err != nil || rem == nil {
		return LabelUntitled
	}
	title, err := h.RichTextToString(ctx, rem.Text)
	if err != nil {
		return LabelUntitled
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return LabelUntitled
	}
	return title
}

// IsPlaceholderLabel reports whether a session label is still generic
// enough to be upgraded from better information, such as an incremental
// item's document text.
func IsPlaceholderLabel(label string) bool {
	switch label {
	case "", LabelUntitled, LabelAdHocSession:
		return true
	}
	return false
}
