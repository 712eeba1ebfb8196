package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	documentStore driven.DocumentStore
	sessionStore  driven.SessionStore
	extractors    driven.ExtractorRegistry
	logger        *slog.Logger
	now           func() time.Time
}

// DocumentServiceConfig holds dependencies for the document service.
type DocumentServiceConfig struct {
	DocumentStore driven.DocumentStore
	SessionStore  driven.SessionStore
	Extractors    driven.ExtractorRegistry
	Logger        *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) driving.DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		documentStore: cfg.DocumentStore,
		sessionStore:  cfg.SessionStore,
		extractors:    cfg.Extractors,
		logger:        logger,
		now:           time.Now,
	}
}

// Upload stores the text of each file under the session.
// Filenames are registered before any extraction, so a failed batch still
// leaves them owned by the session.
func (s *documentService) Upload(ctx context.Context, sessionID string, files []domain.UploadedFile) (*domain.UploadResult, error) {
	if sessionID == "" {
		sessionID = domain.NewSessionID()
	}

	filenames := make([]string, len(files))
	for i, f := range files {
		filenames[i] = f.Filename
	}

	if err := s.sessionStore.RegisterUpload(ctx, sessionID, filenames); err != nil {
		return nil, fmt.Errorf("register upload: %w", err)
	}

	result := &domain.UploadResult{SessionID: sessionID, Filenames: filenames}
	for _, f := range files {
		text, err := s.extract(ctx, f)
		if err != nil {
			s.logger.Warn("upload aborted",
				"session_id", sessionID,
				"filename", f.Filename,
				"stored", result.Documents,
				"error", err,
			)
			return nil, err
		}

		doc := &domain.Document{
			Filename:   f.Filename,
			RawText:    text,
			SessionID:  sessionID,
			UploadedAt: s.now(),
		}
		if err := s.documentStore.Save(ctx, doc); err != nil {
			return nil, fmt.Errorf("save %s: %w", f.Filename, err)
		}
		result.Documents++
	}

	s.logger.Info("documents uploaded", "session_id", sessionID, "documents", result.Documents)
	return result, nil
}

func (s *documentService) extract(ctx context.Context, f domain.UploadedFile) (string, error) {
	extractor := s.extractors.Get(f.ContentType)
	if extractor == nil {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, f.Filename, f.ContentType)
	}
	return extractor.Extract(ctx, f.Filename, f.Data)
}
