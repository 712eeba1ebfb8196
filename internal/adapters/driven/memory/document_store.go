package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore keeps every uploaded document in process memory.
// Documents accumulate for the lifetime of the process.
type DocumentStore struct {
	mu        sync.RWMutex
	documents []*domain.Document
}

// NewDocumentStore creates an empty DocumentStore
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Save appends a new document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	stored := *doc

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, &stored)
	return nil
}

// List returns every stored document in insertion order
func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*domain.Document, len(s.documents))
	for i, d := range s.documents {
		copied := *d
		docs[i] = &copied
	}
	return docs, nil
}

// Count returns the total number of stored documents
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}
