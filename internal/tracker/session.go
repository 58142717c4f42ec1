// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package tracker

// CardSnapshot is the live dashboard's view of one card: scheduling facts
// gathered when the card loads, cumulative fields updated when it is
// rated. Overwritten on every card load.
type CardSnapshot struct {
	CardID string `json:"cardId"`
	// FirstRepTime is the epoch-ms timestamp of the card's first
	// repetition; 0 means the card is new.
	FirstRepTime int64 `json:"firstRepTime,omitempty"`
	// IntervalMs is the scheduled interval when the card loaded: next
	// repetition time minus last repetition time.
	IntervalMs int64 `json:"intervalMs,omitempty"`
	// PriorTimeMs and PriorReps accumulate review time and count across
	// the card's repetition history plus this session's ratings,
	// excluding too-early reviews.
	PriorTimeMs int64 `json:"priorTimeMs,omitempty"`
	PriorReps   int   `json:"priorReps,omitempty"`
	// NextIntervalMs is the projected interval after a rating, from the
	// card's refreshed schedule.
	NextIntervalMs int64 `json:"nextIntervalMs,omitempty"`
}

// PracticeSession is one practice period. JSON field names match the
// persisted shape of earlier plugin versions, so synced history stays
// readable across upgrades.
type PracticeSession struct {
	ID        string `json:"id"`
	StartTime int64  `json:"startTime"`         // epoch ms
	EndTime   int64  `json:"endTime,omitempty"` // epoch ms; 0 while live
	// QueueID is the practiced document's id; set only when a real scope
	// was resolved, never a synthetic id.
	QueueID   string `json:"queueId,omitempty"`
	ScopeName string `json:"scopeName,omitempty"`
	KBID      string `json:"kbId,omitempty"`

	TotalTimeMs     int64 `json:"totalTime"`
	FlashcardCount  int   `json:"flashcardsCount"`
	FlashcardTimeMs int64 `json:"flashcardsTime"`
	IncRemCount     int   `json:"incRemsCount"`
	IncRemTimeMs    int64 `json:"incRemsTime"`
	// AgainCount counts worst-rating outcomes, for retention metrics.
	AgainCount int `json:"againCount"`

	CurrentCard  *CardSnapshot `json:"currentCard,omitempty"`
	PreviousCard *CardSnapshot `json:"previousCard,omitempty"`
}

// Empty reports whether the session recorded no practice at all. Empty
// sessions are discarded, never persisted.
func (s *PracticeSession) Empty() bool {
	return s.FlashcardCount == 0 && s.IncRemCount == 0
}

// Clone returns a deep copy, so read-model consumers never alias the
// tracker's mutable state.
func (s *PracticeSession) Clone() *PracticeSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.CurrentCard != nil {
		cur := *s.CurrentCard
		out.CurrentCard = &cur
	}
	if s.PreviousCard != nil {
		prev := *s.PreviousCard
		out.PreviousCard = &prev
	}
	return &out
}
