package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// SessionStore maps a session to the filenames it owns and its chat history.
// Unknown sessions behave as empty; sessions are never evicted.
type SessionStore interface {
	// RegisterUpload appends filenames to the session's owned list.
	// Duplicates are kept and upload order is preserved.
	RegisterUpload(ctx context.Context, sessionID string, filenames []string) error

	// OwnedFilenames returns the owned filenames in upload order (empty if unknown)
	OwnedFilenames(ctx context.Context, sessionID string) ([]string, error)

	// AppendExchange records an answered query in the session's history
	AppendExchange(ctx context.Context, sessionID string, exchange domain.Exchange) error

	// History returns the session's full history, oldest first (empty if unknown)
	History(ctx context.Context, sessionID string) ([]domain.Exchange, error)
}
