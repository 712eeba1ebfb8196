//go:build integration

package postgres

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// openTestDB connects to DOCQA_TEST_DATABASE_URL and starts from empty tables
func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("DOCQA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("DOCQA_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, DefaultConfig(url))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Twice, to cover re-running against an existing schema
	for i := 0; i < 2; i++ {
		if err := db.InitSchema(ctx); err != nil {
			t.Fatalf("init schema (run %d): %v", i+1, err)
		}
	}
	if _, err := db.ExecContext(ctx, "TRUNCATE documents, session_files, session_history"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestDocumentStore_Integration(t *testing.T) {
	db := openTestDB(t)
	store := NewDocumentStore(db)
	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected empty store, got %d (%v)", count, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	docs := []*domain.Document{
		{Filename: "a.pdf", RawText: "first", SessionID: "s1", UploadedAt: now},
		{Filename: "a.pdf", RawText: "second", SessionID: "s1", UploadedAt: now},
	}
	for _, d := range docs {
		if err := store.Save(ctx, d); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	listed, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].RawText != "first" || listed[1].RawText != "second" {
		t.Errorf("expected both documents in insertion order, got %+v", listed)
	}
	if !listed[0].UploadedAt.Equal(now) {
		t.Errorf("expected uploaded_at %v, got %v", now, listed[0].UploadedAt)
	}
}

func TestSessionStore_Integration(t *testing.T) {
	db := openTestDB(t)
	store := NewSessionStore(db)
	ctx := context.Background()

	owned, err := store.OwnedFilenames(ctx, "unknown")
	if err != nil || len(owned) != 0 {
		t.Fatalf("expected no filenames for unknown session, got %v (%v)", owned, err)
	}

	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf", "b.pdf"})
	_ = store.RegisterUpload(ctx, "s1", []string{"a.pdf"})
	_ = store.RegisterUpload(ctx, "s2", []string{"c.pdf"})

	owned, err = store.OwnedFilenames(ctx, "s1")
	if err != nil {
		t.Fatalf("owned filenames: %v", err)
	}
	if !reflect.DeepEqual(owned, []string{"a.pdf", "b.pdf", "a.pdf"}) {
		t.Errorf("expected upload order with duplicates, got %v", owned)
	}

	_ = store.AppendExchange(ctx, "s1", domain.Exchange{Query: "q1", Answer: "a1"})
	_ = store.AppendExchange(ctx, "s1", domain.Exchange{Query: "q2", Answer: "a2"})

	history, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Query != "q1" || history[1].Answer != "a2" {
		t.Errorf("unexpected history %+v", history)
	}

	other, _ := store.History(ctx, "s2")
	if len(other) != 0 {
		t.Errorf("expected s2 history to be empty, got %+v", other)
	}
}
