package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/jeopardy/internal/game"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	g := &game.Game{ID: "abc123"}
	if err := s.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if got != g {
		t.Fatal("Get returned a different session")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	g := &game.Game{ID: "doomed"}
	if err := s.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "doomed"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("session survived delete: %v", err)
	}

	// Restart semantics: deleting an unknown ID is fine.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Fatal(err)
	}
}
