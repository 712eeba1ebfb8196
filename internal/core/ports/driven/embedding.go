package driven

import (
	"context"
)

// EmbeddingService converts text into fixed-dimension vectors.
// Failures are reported as ErrEmbedding, deadline hits as ErrTimeout.
type EmbeddingService interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the vector length produced by the model
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is reachable
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedding service
	Close() error
}
