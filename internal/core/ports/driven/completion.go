package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// CompletionService turns chat messages into a natural-language answer
type CompletionService interface {
	// Complete sends ordered messages and returns the generated answer.
	// maxTokens bounds the generated length.
	Complete(ctx context.Context, messages []domain.Message, maxTokens int) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the completion service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the completion service
	Close() error
}
