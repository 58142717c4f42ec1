// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package drill maintains the queue of poorly rated flashcards flagged for
// deliberate re-practice, and the popup widget's liveness signals.
package drill

import (
	"encoding/json"
	"fmt"
)

// Entry is one drilled card. Two persisted shapes coexist: a bare card-id
// string (legacy, implicitly bound to the primary knowledge base) and a
// structured record with knowledge-base identity and an added-at stamp.
// Normalization happens here, at the codec boundary, and nowhere else.
type Entry struct {
	CardID  string `json:"cardId"`
	KBID    string `json:"kbId,omitempty"`
	AddedAt int64  `json:"addedAt,omitempty"` // epoch ms; 0 = unknown (legacy)

	// Legacy marks entries read from the bare-string shape. They are
	// written back as bare strings so older plugin versions keep working.
	Legacy bool `json:"-"`
}

// BelongsTo reports whether the entry is in scope for a knowledge base.
// Legacy entries belong to the primary knowledge base only.
func (e Entry) BelongsTo(kbID string, isPrimary bool) bool {
	if e.Legacy {
		return isPrimary
	}
	return e.KBID == kbID
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Legacy {
		return json.Marshal(e.CardID)
	}
	type structured Entry // drop methods to avoid recursion
	return json.Marshal(structured(e))
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*e = Entry{CardID: id, Legacy: true}
		return nil
	}
	type structured Entry
	var s structured
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("drill entry: unrecognized shape: %w", err)
	}
	*e = Entry(s)
	return nil
}
