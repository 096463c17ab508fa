package storage

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.SaveDraft(ctx, KindSale, "d1", []byte(`{"lines":[]}`)); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	data, err := store.LoadDraft(ctx, KindSale, "d1")
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if string(data) != `{"lines":[]}` {
		t.Fatalf("unexpected data %s", data)
	}
}

func TestMemoryStoreKindsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.SaveDraft(ctx, KindSale, "d1", []byte("sale")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if _, err := store.LoadDraft(ctx, KindPurchase, "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound across kinds, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.DeleteDraft(ctx, KindSale, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SaveDraft(ctx, KindSale, "d1", []byte("x")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := store.DeleteDraft(ctx, KindSale, "d1"); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if _, err := store.LoadDraft(ctx, KindSale, "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.SaveDraft(ctx, KindPurchase, id, []byte("x")); err != nil {
			t.Fatalf("SaveDraft: %v", err)
		}
	}
	if err := store.SaveDraft(ctx, KindSale, "other", []byte("x")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	ids, err := store.ListDraftIDs(ctx, KindPurchase)
	if err != nil {
		t.Fatalf("ListDraftIDs: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	buf := []byte("original")
	if err := store.SaveDraft(ctx, KindSale, "d1", buf); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	buf[0] = 'X'

	data, err := store.LoadDraft(ctx, KindSale, "d1")
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("store aliased caller buffer: %s", data)
	}
}
