package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// ProcessingService rebuilds the vector index for a session
type ProcessingService interface {
	// Process chunks and embeds the session's documents into a fresh index.
	// Returns ErrNoDocuments when nothing has been uploaded at all and
	// ErrProcessing wrapping the first gateway failure.
	Process(ctx context.Context, sessionID string) (*domain.ProcessResult, error)

	// IndexSize returns the number of chunks in the published index
	IndexSize() int
}
