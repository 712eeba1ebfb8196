package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure the Ollama adapters implement the gateway ports
var (
	_ driven.EmbeddingService  = (*OllamaEmbedding)(nil)
	_ driven.CompletionService = (*OllamaCompletion)(nil)
)

// Ollama defaults
const (
	DefaultOllamaBaseURL         = "http://localhost:11434"
	DefaultOllamaEmbeddingModel  = "nomic-embed-text"
	DefaultOllamaCompletionModel = "llama3.2"
	DefaultOllamaDimensions      = 768 // nomic-embed-text default
)

// ollamaClient holds what both Ollama adapters share
type ollamaClient struct {
	baseURL string
	model   string
	limiter *RateLimiter
	client  *http.Client
}

// post sends a JSON request and decodes a JSON response into out
func (c *ollamaClient) post(ctx context.Context, kind error, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(kind, err)
	}
	defer resp.Body.Close()
	c.limiter.observe(resp)

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: ollama error (status %d): %s", kind, resp.StatusCode, string(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", kind, err)
	}
	return nil
}

// ping checks that the Ollama server answers
func (c *ollamaClient) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama returned status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func newOllamaClient(baseURL, model, defaultModel string, o gatewayOptions) ollamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return ollamaClient{
		baseURL: baseURL,
		model:   model,
		limiter: o.limiter,
		client:  &http.Client{Timeout: o.timeout},
	}
}

// OllamaEmbedding implements EmbeddingService using a local Ollama server
type OllamaEmbedding struct {
	ollamaClient
	dimensions int
}

// ollamaEmbedRequest is the Ollama /api/embeddings request format
type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// ollamaEmbedResponse is the Ollama /api/embeddings response format
type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaEmbedding creates a new Ollama embedding service
func NewOllamaEmbedding(baseURL, model string, opts ...Option) *OllamaEmbedding {
	o := newGatewayOptions(opts)
	dimensions := o.dimensions
	if dimensions == 0 {
		dimensions = DefaultOllamaDimensions
	}
	return &OllamaEmbedding{
		ollamaClient: newOllamaClient(baseURL, model, DefaultOllamaEmbeddingModel, o),
		dimensions:   dimensions,
	}
}

// Embed embeds each text with its own request, in input order
func (e *OllamaEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		results[i] = emb
	}
	return results, nil
}

// EmbedQuery embeds a single text
func (e *OllamaEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	var resp ollamaEmbedResponse
	if err := e.post(ctx, domain.ErrEmbedding, "/api/embeddings", ollamaEmbedRequest{Model: e.model, Prompt: query}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", domain.ErrEmbedding)
	}
	return resp.Embedding, nil
}

// Dimensions returns the configured vector length
func (e *OllamaEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *OllamaEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the Ollama server is reachable
func (e *OllamaEmbedding) HealthCheck(ctx context.Context) error {
	return e.ping(ctx)
}

// Close releases idle connections
func (e *OllamaEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// OllamaCompletion implements CompletionService using Ollama's /api/chat
type OllamaCompletion struct {
	ollamaClient
}

// ollamaChatRequest is the Ollama /api/chat request format
type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

// ollamaOptions holds generation parameters
type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

// ollamaChatResponse is the Ollama /api/chat response format
type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// NewOllamaCompletion creates a new Ollama completion service
func NewOllamaCompletion(baseURL, model string, opts ...Option) *OllamaCompletion {
	return &OllamaCompletion{
		ollamaClient: newOllamaClient(baseURL, model, DefaultOllamaCompletionModel, newGatewayOptions(opts)),
	}
}

// Complete sends the messages as a non-streaming chat request
func (c *OllamaCompletion) Complete(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: toChatMessages(messages),
		Stream:   false,
	}
	if maxTokens > 0 {
		reqBody.Options = &ollamaOptions{NumPredict: maxTokens}
	}

	var resp ollamaChatResponse
	if err := c.post(ctx, domain.ErrCompletion, "/api/chat", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// Model returns the model name being used
func (c *OllamaCompletion) Model() string {
	return c.model
}

// Ping verifies the Ollama server is reachable
func (c *OllamaCompletion) Ping(ctx context.Context) error {
	return c.ping(ctx)
}

// Close releases idle connections
func (c *OllamaCompletion) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
