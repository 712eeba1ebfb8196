package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.CompletionService = (*OpenAICompletion)(nil)

// OpenAICompletion answers through the /chat/completions endpoint of an
// OpenAI-compatible API
type OpenAICompletion struct {
	openAIClient
	model string
}

// NewOpenAICompletion creates a completion adapter. An empty model selects gpt-3.5-turbo.
func NewOpenAICompletion(apiKey, model, baseURL string, opts ...Option) (*OpenAICompletion, error) {
	client, err := newOpenAIClient(apiKey, baseURL, newGatewayOptions(opts))
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = domain.DefaultCompletionModel
	}
	return &OpenAICompletion{openAIClient: client, model: model}, nil
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

// chatMessage is the message format shared by OpenAI and Ollama
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *openAIError `json:"error,omitempty"`
}

func (r *chatCompletionResponse) apiError() *openAIError { return r.Error }

// Complete returns the content of the first choice
func (c *OpenAICompletion) Complete(ctx context.Context, messages []domain.Message, maxTokens int) (string, error) {
	var resp chatCompletionResponse
	req := chatCompletionRequest{Model: c.model, Messages: toChatMessages(messages), MaxTokens: maxTokens}
	if err := c.post(ctx, "/chat/completions", domain.ErrCompletion, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAICompletion) Model() string {
	return c.model
}

func (c *OpenAICompletion) Ping(ctx context.Context) error {
	return c.ping(ctx)
}

func (c *OpenAICompletion) Close() error {
	c.close()
	return nil
}

func toChatMessages(messages []domain.Message) []chatMessage {
	out := make([]chatMessage, len(messages))
	for i, msg := range messages {
		out[i] = chatMessage{Role: string(msg.Role), Content: msg.Content}
	}
	return out
}
