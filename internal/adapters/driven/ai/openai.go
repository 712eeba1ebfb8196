package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultOpenAIBaseURL is used when no base URL is configured
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient is the transport shared by the OpenAI-compatible adapters
type openAIClient struct {
	apiKey  string
	baseURL string
	limiter *RateLimiter
	client  *http.Client
}

func newOpenAIClient(apiKey, baseURL string, o gatewayOptions) (openAIClient, error) {
	if apiKey == "" {
		return openAIClient{}, fmt.Errorf("%w: OpenAI API key is required", domain.ErrInvalidInput)
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return openAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		limiter: o.limiter,
		client:  &http.Client{Timeout: o.timeout},
	}, nil
}

// openAIError is the error envelope shared by OpenAI endpoints
type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// openAIResponse is implemented by response bodies that may carry an error envelope
type openAIResponse interface {
	apiError() *openAIError
}

// post sends in as JSON to path and decodes the reply into out.
// Failures wrap kind, or domain.ErrTimeout when the call ran out of time.
func (c *openAIClient) post(ctx context.Context, path string, kind error, in any, out openAIResponse) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", kind, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(kind, err)
	}
	defer resp.Body.Close()
	c.limiter.observe(resp)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(kind, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: OpenAI API returned status %d", kind, resp.StatusCode)
		}
		return fmt.Errorf("%w: decode response: %v", kind, err)
	}
	if apiErr := out.apiError(); apiErr != nil {
		return fmt.Errorf("%w: OpenAI API error: %s (type: %s, code: %s)", kind, apiErr.Message, apiErr.Type, apiErr.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: OpenAI API returned status %d", kind, resp.StatusCode)
	}
	return nil
}

// ping lists models, which checks both reachability and the API key
func (c *openAIClient) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrServiceUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: OpenAI API returned status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *openAIClient) close() {
	c.client.CloseIdleConnections()
}
