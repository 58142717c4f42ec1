// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package history keeps the capped, deduplicated most-recent-first logs of
// visited documents and practiced flashcards.
package history

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// textSchemaVersion marks entries whose denormalized text is current.
const textSchemaVersion = 1

// EntryKey is an entry's identity. Older plugin versions persisted random
// floating-point keys; current entries use string ids. Both shapes decode.
type EntryKey string

func (k *EntryKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = EntryKey(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("history entry key: unrecognized shape: %w", err)
	}
	*k = EntryKey(strconv.FormatFloat(n, 'g', -1, 64))
	return nil
}

// VisitEntry records one document visit.
type VisitEntry struct {
	Key   EntryKey `json:"key"`
	RemID string   `json:"remId"`
	Time  int64    `json:"time"` // epoch ms
	KBID  string   `json:"kbId,omitempty"`
	Text  string   `json:"text,omitempty"` // denormalized, for search
	V     int      `json:"_v,omitempty"`   // text schema version
}

// CardEntry records one flashcard completion.
type CardEntry struct {
	Key    EntryKey `json:"key"`
	RemID  string   `json:"remId"`
	CardID string   `json:"cardId"`
	Time   int64    `json:"time"` // epoch ms
	KBID   string   `json:"kbId,omitempty"`
	Text   string   `json:"text,omitempty"`
	V      int      `json:"_v,omitempty"`
}

// InScope reports whether the entry belongs to a knowledge base. Entries
// predating knowledge-base tagging belong to the primary one.
func (e VisitEntry) InScope(kbID string, isPrimary bool) bool {
	if e.KBID == "" {
		return isPrimary
	}
	return e.KBID == kbID
}

// InScope reports whether the entry belongs to a knowledge base.
func (e CardEntry) InScope(kbID string, isPrimary bool) bool {
	if e.KBID == "" {
		return isPrimary
	}
	return e.KBID == kbID
}
