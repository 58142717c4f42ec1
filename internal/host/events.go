// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package host

// Event is an inbound host event. Exactly one of the concrete types below
// is dispatched to the tracker per occurrence.
type Event interface {
	eventName() string
}

// QueueEnter fires when a practice queue opens. SubQueueID carries the
// scope (document) id when the queue was launched on a document; it is
// empty or synthetic for ad-hoc and generated queues.
type QueueEnter struct {
	SubQueueID string `json:"subQueueId,omitempty"`
}

// QueueLoadCard fires when the queue shows the next item. CardID is absent
// for incremental review items; RemID points at the item's document when
// the host includes it.
type QueueLoadCard struct {
	CardID string `json:"cardId,omitempty"`
	RemID  string `json:"remId,omitempty"`
}

// QueueCompleteCard fires when the user rates a flashcard.
type QueueCompleteCard struct {
	CardID string `json:"cardId"`
	Score  Score  `json:"score"`
}

// QueueExit fires when the practice queue closes. The host drops it on
// some platforms; the tracker compensates.
type QueueExit struct{}

// GlobalOpenRem fires when any document is opened in the main window.
type GlobalOpenRem struct {
	RemID string `json:"remId"`
}

func (QueueEnter) eventName() string        { return "queue.enter" }
func (QueueLoadCard) eventName() string     { return "queue.loadCard" }
func (QueueCompleteCard) eventName() string { return "queue.completeCard" }
func (QueueExit) eventName() string         { return "queue.exit" }
func (GlobalOpenRem) eventName() string     { return "global.openRem" }

// Name reports a stable identifier for logging and wire framing.
func Name(e Event) string {
	if e == nil {
		return ""
	}
	return e.eventName()
}
