package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*OpenAIEmbedding)(nil)

// openAIModelDimensions lists the vector length of known embedding models
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIEmbedding embeds text through the /embeddings endpoint of an
// OpenAI-compatible API
type OpenAIEmbedding struct {
	openAIClient
	model      string
	dimensions int
}

// NewOpenAIEmbedding creates an embedding adapter. An empty model selects
// text-embedding-ada-002; unknown models report the default dimensions
// unless WithDimensions is given.
func NewOpenAIEmbedding(apiKey, model, baseURL string, opts ...Option) (*OpenAIEmbedding, error) {
	o := newGatewayOptions(opts)
	client, err := newOpenAIClient(apiKey, baseURL, o)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = domain.DefaultEmbeddingModel
	}

	dimensions := o.dimensions
	if dimensions == 0 {
		if known, ok := openAIModelDimensions[model]; ok {
			dimensions = known
		} else {
			dimensions = domain.DefaultEmbeddingDimensions
		}
	}

	return &OpenAIEmbedding{openAIClient: client, model: model, dimensions: dimensions}, nil
}

type embeddingRequest struct {
	Input          []string `json:"input"`
	Model          string   `json:"model"`
	EncodingFormat string   `json:"encoding_format,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *openAIError `json:"error,omitempty"`
}

func (r *embeddingResponse) apiError() *openAIError { return r.Error }

// Embed returns one vector per text, in input order
func (e *OpenAIEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp embeddingResponse
	req := embeddingRequest{Input: texts, Model: e.model, EncodingFormat: "float"}
	if err := e.post(ctx, "/embeddings", domain.ErrEmbedding, req, &resp); err != nil {
		return nil, err
	}

	// The API tags each vector with its input index; order is not guaranteed
	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(vectors) {
			vectors[d.Index] = d.Embedding
		}
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: no embedding returned for input %d", domain.ErrEmbedding, i)
		}
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string
func (e *OpenAIEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEmbedding) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedding) Model() string {
	return e.model
}

// HealthCheck embeds a short test string
func (e *OpenAIEmbedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

func (e *OpenAIEmbedding) Close() error {
	e.close()
	return nil
}
