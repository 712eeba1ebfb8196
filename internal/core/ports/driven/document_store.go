package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentStore holds extracted document text for every session.
// It is append-only: documents are never overwritten, deduplicated or removed.
type DocumentStore interface {
	// Save appends a new document
	Save(ctx context.Context, doc *domain.Document) error

	// List returns every stored document in insertion order
	List(ctx context.Context) ([]*domain.Document, error)

	// Count returns the total number of stored documents across all sessions
	Count(ctx context.Context) (int, error)
}
