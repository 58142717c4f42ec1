// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package host defines the surface this plugin consumes from the
// note-taking host: queue lifecycle events, rating scores, card and rem
// lookups, and knowledge-base identity. The host itself lives outside this
// module; everything here is the contract it is expected to satisfy.
package host

import "context"

// Score is a rating given to a flashcard on completion. Values mirror the
// host's rating scale, where TooEarly marks a review the scheduler judged
// premature rather than a difficulty judgment.
type Score float64

const (
	ScoreAgain    Score = 0
	ScoreTooEarly Score = 0.01
	ScoreHard     Score = 0.5
	ScoreGood     Score = 1
	ScoreEasy     Score = 1.5
)

// ScreenType identifies what kind of item the queue is currently showing.
type ScreenType int

const (
	// ScreenUnknown means the host did not report a screen type, which
	// happens briefly after tab switches.
	ScreenUnknown ScreenType = iota
	ScreenFlashcard
	// ScreenPlugin is the host's plugin-content screen, used for
	// incremental review items.
	ScreenPlugin
)

// Repetition is one entry of a card's review history.
type Repetition struct {
	Date           int64 `json:"date"` // epoch ms
	Score          Score `json:"score"`
	ResponseTimeMs int64 `json:"responseTime,omitempty"`
}

// Card is a flashcard as reported by the host.
type Card struct {
	ID                 string       `json:"id"`
	RemID              string       `json:"remId"`
	Repetitions        []Repetition `json:"repetitionHistory,omitempty"`
	LastRepetitionTime int64        `json:"lastRepetitionTime,omitempty"` // epoch ms
	NextRepetitionTime int64        `json:"nextRepetitionTime,omitempty"` // epoch ms
}

// Rem is a document node as reported by the host.
type Rem struct {
	ID       string `json:"id"`
	Text     string `json:"text,omitempty"`     // front rich text
	BackText string `json:"backText,omitempty"` // back rich text
}

// KnowledgeBase identifies which knowledge base the host currently has open.
type KnowledgeBase struct {
	ID        string
	IsPrimary bool
}

// Host is the collaborator surface consumed by the core. All lookups may
// fail transiently (deleted entities, sync lag); callers degrade rather
// than abort.
type Host interface {
	// FindCard resolves a card by id. Returns (nil, nil) when absent.
	FindCard(ctx context.Context, cardID string) (*Card, error)
	// FindRem resolves a rem by id. Returns (nil, nil) when absent.
	FindRem(ctx context.Context, remID string) (*Rem, error)
	// RichTextToString flattens host rich text to a plain string.
	RichTextToString(ctx context.Context, richText string) (string, error)
	// CurrentKnowledgeBase reports the open knowledge base.
	CurrentKnowledgeBase(ctx context.Context) (KnowledgeBase, error)
	// QueueScreenType reports what the queue is showing right now.
	// ScreenUnknown is a valid answer.
	QueueScreenType(ctx context.Context) (ScreenType, error)
}
