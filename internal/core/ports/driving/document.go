package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentService accepts uploaded files for a session
type DocumentService interface {
	// Upload registers the filenames with the session, then extracts and stores
	// each file's text. Extraction stops at the first unreadable file.
	// An empty sessionID starts a new session.
	Upload(ctx context.Context, sessionID string, files []domain.UploadedFile) (*domain.UploadResult, error)
}
