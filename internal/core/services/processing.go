package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/docqa/internal/chunking"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/runtime"
)

// Ensure processingService implements ProcessingService
var _ driving.ProcessingService = (*processingService)(nil)

// DefaultEmbeddingBatchSize is the number of chunks sent per Embed call
const DefaultEmbeddingBatchSize = 16

// processingService rebuilds the shared index from stored documents.
// The flow per run:
//  1. Start a fresh index
//  2. Fail with ErrNoDocuments if the store is empty
//  3. Select documents tagged with the session whose filename it owns
//  4. Chunk, embed in batches, insert
//  5. Publish the index, complete or partial
type processingService struct {
	documentStore driven.DocumentStore
	sessionStore  driven.SessionStore
	index         *SharedIndex
	chunker       *chunking.Chunker
	services      *runtime.Services
	batchSize     int
	timeout       time.Duration
	logger        *slog.Logger
}

// ProcessingServiceConfig holds dependencies for the processing service.
type ProcessingServiceConfig struct {
	DocumentStore driven.DocumentStore
	SessionStore  driven.SessionStore
	Index         *SharedIndex
	Chunker       *chunking.Chunker
	Services      *runtime.Services
	BatchSize     int
	Timeout       time.Duration
	Logger        *slog.Logger
}

// NewProcessingService creates a new ProcessingService
func NewProcessingService(cfg ProcessingServiceConfig) driving.ProcessingService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunker := cfg.Chunker
	if chunker == nil {
		chunker = chunking.NewChunker(chunking.DefaultChunkConfig())
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultEmbeddingBatchSize
	}

	return &processingService{
		documentStore: cfg.DocumentStore,
		sessionStore:  cfg.SessionStore,
		index:         cfg.Index,
		chunker:       chunker,
		services:      cfg.Services,
		batchSize:     batchSize,
		timeout:       cfg.Timeout,
		logger:        logger,
	}
}

// Process rebuilds the shared index for the session.
// The whole index is replaced, including entries built for other sessions.
func (s *processingService) Process(ctx context.Context, sessionID string) (*domain.ProcessResult, error) {
	start := time.Now()

	// The index is reset on every path, including a missing gateway
	embedder := s.services.EmbeddingService()
	dimensions := s.index.Current().Dimensions()
	if embedder != nil {
		dimensions = embedder.Dimensions()
	}

	result := &domain.ProcessResult{SessionID: sessionID}

	err := s.index.Rebuild(dimensions, func(ix driven.VectorIndex) error {
		total, err := s.documentStore.Count(ctx)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if total == 0 {
			return domain.ErrNoDocuments
		}
		if embedder == nil {
			return fmt.Errorf("%w: %w: no embedding gateway configured", domain.ErrProcessing, domain.ErrServiceUnavailable)
		}

		docs, err := s.qualifyingDocuments(ctx, sessionID)
		if err != nil {
			return err
		}
		result.Documents = len(docs)

		for _, doc := range docs {
			inserted, err := s.indexDocument(ctx, embedder, ix, doc)
			result.Chunks += inserted
			if err != nil {
				return fmt.Errorf("%w: %s: %w", domain.ErrProcessing, doc.Filename, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("processing failed",
			"session_id", sessionID,
			"chunks", result.Chunks,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("index rebuilt",
		"session_id", sessionID,
		"documents", result.Documents,
		"chunks", result.Chunks,
		"duration", time.Since(start),
	)
	return result, nil
}

// IndexSize returns the number of entries in the published index
func (s *processingService) IndexSize() int {
	return s.index.Len()
}

// qualifyingDocuments applies the session and filename double filter
func (s *processingService) qualifyingDocuments(ctx context.Context, sessionID string) ([]*domain.Document, error) {
	owned, err := s.sessionStore.OwnedFilenames(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get owned filenames: %w", err)
	}

	all, err := s.documentStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var docs []*domain.Document
	for _, doc := range all {
		if doc.BelongsTo(sessionID, owned) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// indexDocument embeds one document's chunks batch by batch.
// Returns the number of chunks inserted before any failure.
func (s *processingService) indexDocument(ctx context.Context, embedder driven.EmbeddingService, ix driven.VectorIndex, doc *domain.Document) (int, error) {
	inserted := 0
	batch := make([]domain.Chunk, 0, s.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) ([][]float32, error) {
			return embedder.Embed(ctx, texts)
		})
		if err != nil {
			return err
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("%w: got %d vectors for %d chunks", domain.ErrEmbedding, len(vectors), len(batch))
		}

		for i, vec := range vectors {
			if err := ix.Insert(vec, batch[i]); err != nil {
				return err
			}
			inserted++
		}
		batch = batch[:0]
		return nil
	}

	for chunk := range s.chunker.ChunkDocument(doc) {
		batch = append(batch, chunk)
		if len(batch) == s.batchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}
	return inserted, flush()
}
