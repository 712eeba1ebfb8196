package ai

import (
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates gateway adapters based on configuration.
// Every adapter it creates shares one rate limiter.
type Factory struct {
	limiter *RateLimiter
}

// NewFactory creates a new AI service factory
func NewFactory(limits RateLimitConfig) *Factory {
	return &Factory{limiter: NewRateLimiter(limits)}
}

// Limiter returns the limiter shared by created adapters
func (f *Factory) Limiter() *RateLimiter {
	return f.limiter
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	opts := []Option{
		WithTimeout(settings.Timeout),
		WithRateLimiter(f.limiter),
		WithDimensions(settings.Dimensions),
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err := NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL, opts...)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case domain.AIProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateCompletionService creates a completion service from settings
func (f *Factory) CreateCompletionService(settings *domain.CompletionSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	opts := []Option{
		WithTimeout(settings.Timeout),
		WithRateLimiter(f.limiter),
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		svc, err := NewOpenAICompletion(settings.APIKey, settings.Model, settings.BaseURL, opts...)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case domain.AIProviderOllama:
		return NewOllamaCompletion(settings.BaseURL, settings.Model, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
