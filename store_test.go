package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(memoryDatabase)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreCounters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	steps := []struct {
		name     string
		op       func(context.Context, string) (int, error)
		expected int
	}{
		{"Increment new item", store.IncrementCounter, 1},
		{"Increment again", store.IncrementCounter, 2},
		{"Decrement", store.DecrementCounter, 1},
		{"Reset", store.ResetCounter, 0},
		{"Decrement stops at zero", store.DecrementCounter, 0},
		{"Increment after reset", store.IncrementCounter, 1},
	}

	for _, step := range steps {
		got, err := step.op(ctx, "item-a")
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if got != step.expected {
			t.Errorf("%s: expected %d, got %d", step.name, step.expected, got)
		}
	}
}

func TestStoreDecrementUnknownItem(t *testing.T) {
	store := openTestStore(t)
	got, err := store.DecrementCounter(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("DecrementCounter failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}

func TestStoreRatings(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rating := 80
	if err := store.SetRating(ctx, "item-a", &rating); err != nil {
		t.Fatalf("SetRating failed: %v", err)
	}
	if _, err := store.IncrementCounter(ctx, "item-a"); err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}

	stats, err := store.Lookup(ctx, []string{"item-a", "item-b"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	got, ok := stats["item-a"]
	if !ok {
		t.Fatal("Expected stats for item-a")
	}
	if got.Counter != 1 || got.Rating == nil || *got.Rating != 80 {
		t.Errorf("Expected counter 1 and rating 80, got %+v", got)
	}
	if _, ok := stats["item-b"]; ok {
		t.Error("Expected no stats for an unknown item")
	}

	if err := store.SetRating(ctx, "item-a", nil); err != nil {
		t.Fatalf("clearing rating failed: %v", err)
	}
	stats, err = store.Lookup(ctx, []string{"item-a"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if stats["item-a"].Rating != nil {
		t.Errorf("Expected cleared rating, got %d", *stats["item-a"].Rating)
	}
	if stats["item-a"].Counter != 1 {
		t.Errorf("Expected counter to survive a rating change, got %d", stats["item-a"].Counter)
	}
}

func TestStoreRejectsInvalidRating(t *testing.T) {
	store := openTestStore(t)
	for _, value := range []int{-1, 101} {
		rating := value
		if err := store.SetRating(context.Background(), "item-a", &rating); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", value, err)
		}
	}
}

func TestStoreLookupEmpty(t *testing.T) {
	store := openTestStore(t)
	stats, err := store.Lookup(context.Background(), nil)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected no stats, got %v", stats)
	}
}

func TestStoreLookupSpansBatches(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ids := make([]string, 3*lookupBatchSize+7)
	for i := range ids {
		ids[i] = fmt.Sprintf("item-%d", i)
	}
	tracked := []string{ids[0], ids[lookupBatchSize], ids[len(ids)-1]}
	for _, id := range tracked {
		if _, err := store.IncrementCounter(ctx, id); err != nil {
			t.Fatalf("IncrementCounter(%s) failed: %v", id, err)
		}
	}

	stats, err := store.Lookup(ctx, ids)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(stats) != len(tracked) {
		t.Errorf("Expected %d stats, got %d", len(tracked), len(stats))
	}
	for _, id := range tracked {
		if stats[id].Counter != 1 {
			t.Errorf("Expected counter 1 for %s, got %d", id, stats[id].Counter)
		}
	}
}

func TestStorePersistsOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stats.db")
	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	if _, err := store.IncrementCounter(context.Background(), "item-a"); err != nil {
		t.Fatalf("IncrementCounter failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	stats, err := reopened.Lookup(context.Background(), []string{"item-a"})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if stats["item-a"].Counter != 1 {
		t.Errorf("Expected persisted counter 1, got %d", stats["item-a"].Counter)
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{nil, false},
		{errors.New("database is locked"), true},
		{errors.New("SQLITE_BUSY: try again"), true},
		{errors.New("no such table"), false},
	}

	for _, tt := range tests {
		if got := isSQLiteBusy(tt.err); got != tt.expected {
			t.Errorf("isSQLiteBusy(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}

func TestRetryOnBusy(t *testing.T) {
	attempts := 0
	err := retryOnBusy(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}

	attempts = 0
	permanent := errors.New("constraint failed")
	err = retryOnBusy(context.Background(), func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) || attempts != 1 {
		t.Errorf("Expected a single attempt for non-busy errors, got %d attempts and %v", attempts, err)
	}
}
