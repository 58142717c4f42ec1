// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package storage is the plugin's view of host storage: a durable synced
// tier shared across devices and an ephemeral session tier local to the
// running process. All values are JSON documents under fixed keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hugomarins/final-drill-and-history/internal/store"
)

// Synced tier keys.
const (
	KeyFinalDrillIDs         = "finalDrillIds"
	KeyFlashcardHistory      = "flashcardHistoryData"
	KeyRemHistory            = "remData"
	KeyPracticedQueueHistory = "practicedQueuesHistory"
)

// Session tier keys.
const (
	KeyActiveSession          = "activeQueueSession"
	KeyFinalDrillActive       = "finalDrillActive"
	KeyFinalDrillHeartbeat    = "finalDrillHeartbeat"
	KeyFinalDrillBlocked      = "finalDrillBlocked"
	KeyFinalDrillCurrentCard  = "finalDrillCurrentCardId"
	KeyFinalDrillPreviousCard = "finalDrillPreviousCardId"
	KeyFinalDrillResume       = "finalDrillResumeTrigger"
)

// Storage bundles the two tiers.
type Storage struct {
	Synced  store.KVStore
	Session store.KVStore
}

// New creates a Storage over the given backends.
func New(synced, session store.KVStore) *Storage {
	return &Storage{Synced: synced, Session: session}
}

// GetJSON unmarshals the value at key into out. A missing key leaves out
// untouched and returns false.
func GetJSON(ctx context.Context, kv store.KVStore, key string, out any) (bool, error) {
	data, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it at key.
func SetJSON(ctx context.Context, kv store.KVStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}
