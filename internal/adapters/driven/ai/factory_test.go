package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)
	if factory == nil {
		t.Fatal("expected non-nil factory")
	}
	if factory.Limiter() == nil {
		t.Error("expected shared limiter")
	}
}

func TestFactory_CreateEmbeddingService_NilSettings(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	svc, err := factory.CreateEmbeddingService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateEmbeddingService_NotConfigured(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	svc, err := factory.CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service without API key")
	}
}

func TestFactory_CreateEmbeddingService_OpenAI(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	svc, err := factory.CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Model() != domain.DefaultEmbeddingModel {
		t.Errorf("expected %s, got %s", domain.DefaultEmbeddingModel, svc.Model())
	}
	emb := svc.(*OpenAIEmbedding)
	if emb.limiter != factory.Limiter() {
		t.Error("expected adapter to share the factory limiter")
	}
}

func TestFactory_CreateEmbeddingService_Ollama(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	svc, err := factory.CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider:   domain.AIProviderOllama,
		Model:      "nomic-embed-text",
		Dimensions: 384,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Dimensions() != 384 {
		t.Errorf("expected 384 dimensions, got %d", svc.Dimensions())
	}
}

func TestFactory_CreateEmbeddingService_InvalidProvider(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	_, err := factory.CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: "unknown",
		APIKey:   "key",
	})
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}

func TestFactory_CreateCompletionService(t *testing.T) {
	factory := NewFactory(DefaultRateLimit)

	testCases := []struct {
		name     string
		settings *domain.CompletionSettings
		wantNil  bool
		wantErr  error
		model    string
	}{
		{"nil settings", nil, true, nil, ""},
		{"missing key", &domain.CompletionSettings{Provider: domain.AIProviderOpenAI}, true, nil, ""},
		{"openai", &domain.CompletionSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test"}, false, nil, "gpt-3.5-turbo"},
		{"ollama", &domain.CompletionSettings{Provider: domain.AIProviderOllama, Model: "llama3"}, false, nil, "llama3"},
		{"invalid", &domain.CompletionSettings{Provider: "bogus", APIKey: "k"}, true, domain.ErrInvalidProvider, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := factory.CreateCompletionService(tc.settings)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil {
				if svc != nil {
					t.Error("expected nil service")
				}
				return
			}
			if svc.Model() != tc.model {
				t.Errorf("expected model %s, got %s", tc.model, svc.Model())
			}
		})
	}
}
