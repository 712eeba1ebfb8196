package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

const documentsKey = "docqa:documents"

// DocumentStore implements driven.DocumentStore as a single append-only Redis list
type DocumentStore struct {
	client *redis.Client
}

// NewDocumentStore creates a new Redis-backed DocumentStore
func NewDocumentStore(client *redis.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// Save appends a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	if err := s.client.RPush(ctx, documentsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// List returns every stored document in insertion order
func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	raw, err := s.client.LRange(ctx, documentsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*domain.Document, 0, len(raw))
	for _, item := range raw {
		var doc domain.Document
		if err := json.Unmarshal([]byte(item), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

// Count returns the number of stored documents
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, documentsKey).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return int(n), nil
}
