package runtime

import (
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Services is the registry of gateway adapters used by the query and
// processing services. Either gateway may be nil and may be replaced while
// requests are in flight. Safe for concurrent use.
type Services struct {
	mu sync.RWMutex

	config     *domain.RuntimeConfig
	embedding  driven.EmbeddingService
	completion driven.CompletionService
}

// NewServices creates an empty registry reporting availability through config
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{config: config}
}

// Config returns the capability flags kept in sync with the registry
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the current embedding gateway, or nil
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embedding
}

// CompletionService returns the current completion gateway, or nil
func (s *Services) CompletionService() driven.CompletionService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completion
}

// SetEmbeddingService installs svc and closes the gateway it replaces
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	old := s.embedding
	s.embedding = svc
	s.config.SetEmbeddingAvailable(svc != nil)
	s.mu.Unlock()

	closeGateway(old)
}

// SetCompletionService installs svc and closes the gateway it replaces
func (s *Services) SetCompletionService(svc driven.CompletionService) {
	s.mu.Lock()
	old := s.completion
	s.completion = svc
	s.config.SetCompletionAvailable(svc != nil)
	s.mu.Unlock()

	closeGateway(old)
}

// ValidateAndSetEmbedding installs svc only if its health check passes.
// A failing svc is closed and the current gateway is kept.
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc != nil {
		if err := svc.HealthCheck(ctx); err != nil {
			closeGateway(svc)
			return err
		}
	}
	s.SetEmbeddingService(svc)
	return nil
}

// ValidateAndSetCompletion installs svc only if it answers a ping.
// A failing svc is closed and the current gateway is kept.
func (s *Services) ValidateAndSetCompletion(ctx context.Context, svc driven.CompletionService) error {
	if svc != nil {
		if err := svc.Ping(ctx); err != nil {
			closeGateway(svc)
			return err
		}
	}
	s.SetCompletionService(svc)
	return nil
}

// Close releases both gateways and marks them unavailable
func (s *Services) Close() error {
	s.SetEmbeddingService(nil)
	s.SetCompletionService(nil)
	return nil
}

// closeGateway closes c unless it is a nil interface
func closeGateway(c io.Closer) {
	if c == nil {
		return
	}
	_ = c.Close()
}
