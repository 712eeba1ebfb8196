package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// QueryService answers questions against a session's documents
type QueryService interface {
	// Answer runs the query state machine for the session
	Answer(ctx context.Context, sessionID string, req domain.QueryRequest) (*domain.QueryResult, error)
}
