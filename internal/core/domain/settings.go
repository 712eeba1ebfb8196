package domain

import "time"

// AIProvider identifies the embedding or completion provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
)

// Defaults for the gateways the service talks to
const (
	DefaultEmbeddingModel      = "text-embedding-ada-002"
	DefaultEmbeddingDimensions = 1536
	DefaultCompletionModel     = "gpt-3.5-turbo"
	DefaultGatewayTimeout      = 60 * time.Second
)

// Token budgets for completions
const (
	GreetingMaxTokens  = 50
	RetrievalMaxTokens = 150
)

// EmbeddingSettings configures the embedding gateway
type EmbeddingSettings struct {
	Provider   AIProvider    `json:"provider"`
	Model      string        `json:"model"`
	APIKey     string        `json:"-"` // Never serialize to JSON
	BaseURL    string        `json:"base_url,omitempty"`
	Dimensions int           `json:"dimensions,omitempty"` // Overrides the model default
	Timeout    time.Duration `json:"timeout,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// CompletionSettings configures the completion gateway
type CompletionSettings struct {
	Provider AIProvider    `json:"provider"`
	Model    string        `json:"model"`
	APIKey   string        `json:"-"` // Never serialize to JSON
	BaseURL  string        `json:"base_url,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty"`
}

// IsConfigured returns true if completion settings are properly configured
func (c *CompletionSettings) IsConfigured() bool {
	if c.Provider == "" {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// RequiresAPIKey returns true if this provider requires an API key
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOllama:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// IsValid returns true if the provider is supported
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}
