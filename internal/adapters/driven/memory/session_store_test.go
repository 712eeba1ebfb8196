package memory

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestSessionStore_RegisterUpload(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf", "b.pdf"})
	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf"})

	owned, err := store.OwnedFilenames(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"a.pdf", "b.pdf", "a.pdf"}
	if !reflect.DeepEqual(owned, expected) {
		t.Errorf("expected %v, got %v", expected, owned)
	}
}

func TestSessionStore_UnknownSession(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	owned, err := store.OwnedFilenames(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owned) != 0 {
		t.Errorf("expected empty list, got %v", owned)
	}

	history, err := store.History(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %v", history)
	}
}

func TestSessionStore_History(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		_ = store.AppendExchange(ctx, "s1", domain.Exchange{Query: q, Answer: "a-" + q})
	}

	history, _ := store.History(ctx, "s1")
	if len(history) != 4 {
		t.Fatalf("expected unbounded history of 4, got %d", len(history))
	}
	if history[0].Query != "q1" || history[3].Answer != "a-q4" {
		t.Errorf("unexpected history order: %+v", history)
	}
}

func TestSessionStore_ReturnsCopies(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf"})
	_ = store.AppendExchange(ctx, "s1", domain.Exchange{Query: "q", Answer: "a"})

	owned, _ := store.OwnedFilenames(ctx, "s1")
	owned[0] = "mutated.pdf"
	history, _ := store.History(ctx, "s1")
	history[0].Answer = "mutated"

	owned, _ = store.OwnedFilenames(ctx, "s1")
	if owned[0] != "a.pdf" {
		t.Errorf("store was mutated through OwnedFilenames result")
	}
	history, _ = store.History(ctx, "s1")
	if history[0].Answer != "a" {
		t.Errorf("store was mutated through History result")
	}
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf"})
	_ = store.RegisterUpload(ctx, "s2", []string{"b.pdf"})

	owned, _ := store.OwnedFilenames(ctx, "s2")
	if !reflect.DeepEqual(owned, []string{"b.pdf"}) {
		t.Errorf("expected [b.pdf], got %v", owned)
	}
}

func TestSessionStore_ConcurrentAppends(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendExchange(ctx, "s1", domain.Exchange{Query: "q", Answer: "a"})
			_ = store.RegisterUpload(ctx, "s1", []string{"f.pdf"})
		}()
	}
	wg.Wait()

	history, _ := store.History(ctx, "s1")
	owned, _ := store.OwnedFilenames(ctx, "s1")
	if len(history) != 20 || len(owned) != 20 {
		t.Errorf("expected 20 entries each, got history=%d owned=%d", len(history), len(owned))
	}
}
