package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a miniredis instance and a client pointing at it
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, func() {
		client.Close()
		mr.Close()
	}
}

func TestNewSessionStore(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)

	if store == nil {
		t.Fatal("expected non-nil SessionStore")
	}
	if store.client == nil {
		t.Error("expected non-nil Redis client")
	}
}

func TestSessionStore_RegisterUpload(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	if err := store.RegisterUpload(ctx, "s1", []string{"a.pdf", "b.pdf"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.RegisterUpload(ctx, "s1", []string{"a.pdf"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	owned, err := store.OwnedFilenames(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"a.pdf", "b.pdf", "a.pdf"}
	if len(owned) != len(expected) {
		t.Fatalf("expected %d filenames, got %d", len(expected), len(owned))
	}
	for i := range expected {
		if owned[i] != expected[i] {
			t.Errorf("filename %d: expected %s, got %s", i, expected[i], owned[i])
		}
	}
}

func TestSessionStore_RegisterUpload_Empty(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)

	if err := store.RegisterUpload(context.Background(), "s1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionStore_UnknownSession(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	owned, err := store.OwnedFilenames(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owned == nil || len(owned) != 0 {
		t.Errorf("expected empty non-nil list, got %v", owned)
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
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	exchanges := []domain.Exchange{
		{Query: "what is x", Answer: "x is y"},
		{Query: "and z", Answer: "z is w"},
	}
	for _, ex := range exchanges {
		if err := store.AppendExchange(ctx, "s1", ex); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(history))
	}
	if history[0] != exchanges[0] || history[1] != exchanges[1] {
		t.Errorf("unexpected history: %+v", history)
	}
}

func TestSessionStore_History_CorruptedData(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewSessionStore(client)
	ctx := context.Background()

	client.RPush(ctx, sessionHistoryPrefix+"s1", "not json")

	if _, err := store.History(ctx, "s1"); err == nil {
		t.Error("expected error for corrupted history entry")
	}
}

func TestSessionStore_ConnectionError(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	store := NewSessionStore(client)
	cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := store.RegisterUpload(ctx, "s1", []string{"a.pdf"}); err == nil {
		t.Error("expected error on closed client")
	}
	if _, err := store.OwnedFilenames(ctx, "s1"); err == nil {
		t.Error("expected error on closed client")
	}
}

func TestDocumentStore_SaveAndList(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewDocumentStore(client)
	ctx := context.Background()

	uploadedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	docs := []*domain.Document{
		{Filename: "a.pdf", RawText: "alpha", SessionID: "s1", UploadedAt: uploadedAt},
		{Filename: "a.pdf", RawText: "alpha", SessionID: "s1", UploadedAt: uploadedAt},
		{Filename: "b.pdf", RawText: "beta", SessionID: "s2", UploadedAt: uploadedAt},
	}
	for _, d := range docs {
		if err := store.Save(ctx, d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(listed))
	}
	if listed[2].Filename != "b.pdf" || listed[2].SessionID != "s2" {
		t.Errorf("unexpected third document: %+v", listed[2])
	}
	if !listed[0].UploadedAt.Equal(uploadedAt) {
		t.Errorf("expected uploaded_at %v, got %v", uploadedAt, listed[0].UploadedAt)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestDocumentStore_Empty(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewDocumentStore(client)
	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestDocumentStore_List_CorruptedData(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	store := NewDocumentStore(client)
	ctx := context.Background()

	client.RPush(ctx, documentsKey, "{broken")

	if _, err := store.List(ctx); err == nil {
		t.Error("expected error for corrupted document")
	}
}
