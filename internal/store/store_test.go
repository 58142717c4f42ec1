// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: got %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v1" {
		t.Fatalf("got %q", got)
	}

	// The returned slice is a copy; mutating it must not corrupt the store.
	got[0] = 'X'
	again, _ := kv.Get(ctx, "k")
	if string(again) != "v1" {
		t.Fatalf("stored value mutated: %q", again)
	}

	if err := kv.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	got, _ = kv.Get(ctx, "k")
	if string(got) != "v2" {
		t.Fatalf("overwrite: got %q", got)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: got %v", err)
	}
	// Deleting again is fine.
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.db")

	kv, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kv.Close()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: got %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, "k", []byte(`{"a":2}`)); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("upsert: got %s", got)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: got %v", err)
	}
}
