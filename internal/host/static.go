// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"sync"
)

// StaticHost is an in-memory Host backed by fixed card/rem tables. It
// serves package tests and the offline CLI, where lookups come from an
// exported knowledge-base snapshot instead of a live host.
type StaticHost struct {
	mu     sync.RWMutex
	cards  map[string]*Card
	rems   map[string]*Rem
	kb     KnowledgeBase
	screen ScreenType
}

// NewStaticHost creates an empty StaticHost for the given knowledge base.
func NewStaticHost(kb KnowledgeBase) *StaticHost {
	return &StaticHost{
		cards:  make(map[string]*Card),
		rems:   make(map[string]*Rem),
		kb:     kb,
		screen: ScreenUnknown,
	}
}

// PutCard registers or replaces a card.
func (h *StaticHost) PutCard(c *Card) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cards[c.ID] = c
}

// PutRem registers or replaces a rem.
func (h *StaticHost) PutRem(r *Rem) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rems[r.ID] = r
}

// SetScreenType sets what QueueScreenType reports.
func (h *StaticHost) SetScreenType(t ScreenType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screen = t
}

// SetKnowledgeBase switches the reported knowledge base.
func (h *StaticHost) SetKnowledgeBase(kb KnowledgeBase) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kb = kb
}

func (h *StaticHost) FindCard(_ context.Context, cardID string) (*Card, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cards[cardID], nil
}

func (h *StaticHost) FindRem(_ context.Context, remID string) (*Rem, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rems[remID], nil
}

// RichTextToString is the identity for StaticHost: snapshots store plain
// strings already.
func (h *StaticHost) RichTextToString(_ context.Context, richText string) (string, error) {
	return richText, nil
}

func (h *StaticHost) CurrentKnowledgeBase(_ context.Context) (KnowledgeBase, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.kb, nil
}

func (h *StaticHost) QueueScreenType(_ context.Context) (ScreenType, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.screen, nil
}
