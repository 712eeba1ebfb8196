package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/runtime"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// queryService answers queries through an ordered set of guards.
// The first guard that matches decides the route:
//  1. no session          -> ErrSessionRequired
//  2. empty query         -> ErrEmptyQuery
//  3. greeting            -> short completion, no retrieval
//  4. LLM disabled        -> fixed answer
//  5. vector DB disabled  -> not-found template
//     or empty index
//  6. retrieval           -> grounded completion, history updated
type queryService struct {
	sessionStore driven.SessionStore
	index        *SharedIndex
	services     *runtime.Services
	topK         int
	timeout      time.Duration
	logger       *slog.Logger
}

// QueryServiceConfig holds dependencies for the query service.
type QueryServiceConfig struct {
	SessionStore driven.SessionStore
	Index        *SharedIndex
	Services     *runtime.Services
	TopK         int
	Timeout      time.Duration
	Logger       *slog.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(cfg QueryServiceConfig) driving.QueryService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	return &queryService{
		sessionStore: cfg.SessionStore,
		index:        cfg.Index,
		services:     cfg.Services,
		topK:         topK,
		timeout:      cfg.Timeout,
		logger:       logger,
	}
}

// Answer runs the query state machine
func (s *queryService) Answer(ctx context.Context, sessionID string, req domain.QueryRequest) (*domain.QueryResult, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionRequired
	}

	query := domain.NormalizeQuery(req.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	result, err := s.route(ctx, sessionID, query, req)
	if err != nil {
		s.logger.Error("query failed", "session_id", sessionID, "error", err)
		return nil, err
	}

	s.logger.Info("query answered", "session_id", sessionID, "route", result.Route)
	return result, nil
}

func (s *queryService) route(ctx context.Context, sessionID, query string, req domain.QueryRequest) (*domain.QueryResult, error) {
	switch {
	case domain.IsGreeting(query):
		return s.answerGreeting(ctx, query)
	case !req.UseLLM:
		return &domain.QueryResult{Answer: domain.LLMNotConnectedAnswer, Route: domain.RouteLLMDisabled}, nil
	case !req.UseVectorDB || s.index.Len() == 0:
		return notFound(query), nil
	default:
		return s.answerFromDocuments(ctx, sessionID, query)
	}
}

func (s *queryService) answerGreeting(ctx context.Context, query string) (*domain.QueryResult, error) {
	answer, err := s.complete(ctx, greetingMessages(query), domain.GreetingMaxTokens)
	if err != nil {
		return nil, err
	}
	return &domain.QueryResult{Answer: answer, Route: domain.RouteGreeting}, nil
}

func (s *queryService) answerFromDocuments(ctx context.Context, sessionID, query string) (*domain.QueryResult, error) {
	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return nil, fmt.Errorf("%w: %w: no embedding gateway configured", domain.ErrEmbedding, domain.ErrServiceUnavailable)
	}

	vector, err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) ([]float32, error) {
		return embedder.EmbedQuery(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	hits, err := s.index.Search(vector, s.topK)
	if err != nil {
		return nil, err
	}

	owned, err := s.sessionStore.OwnedFilenames(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get owned filenames: %w", err)
	}

	docContext := DocumentContext(RankChunks(hits, sessionID, owned, s.topK))
	if strings.TrimSpace(docContext) == "" {
		return notFound(query), nil
	}

	history, err := s.sessionStore.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	answer, err := s.complete(ctx, retrievalMessages(history, docContext, query), domain.RetrievalMaxTokens)
	if err != nil {
		return nil, err
	}
	if domain.ReportsNoRelevantInformation(answer) {
		answer = domain.NotFoundAnswer(query)
	}

	if err := s.sessionStore.AppendExchange(ctx, sessionID, domain.Exchange{Query: query, Answer: answer}); err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}

	return &domain.QueryResult{Answer: answer, Route: domain.RouteRetrieval, Context: docContext}, nil
}

// complete calls the completion gateway and trims the answer
func (s *queryService) complete(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	completer := s.services.CompletionService()
	if completer == nil {
		return "", fmt.Errorf("%w: %w: no completion gateway configured", domain.ErrCompletion, domain.ErrServiceUnavailable)
	}

	answer, err := callWithTimeout(ctx, s.timeout, func(ctx context.Context) (string, error) {
		return completer.Complete(ctx, messages, maxTokens)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func notFound(query string) *domain.QueryResult {
	return &domain.QueryResult{Answer: domain.NotFoundAnswer(query), Route: domain.RouteNotFound}
}
