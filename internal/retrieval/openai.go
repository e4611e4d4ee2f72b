package retrieval

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIEmbedder implements service.Embedder against any OpenAI-compatible
// embedding endpoint.
type OpenAIEmbedder struct {
	client openai.EmbeddingService
	model  string
}

// OpenAIConfig holds connection settings for the embedding endpoint.
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// NewOpenAIEmbedder creates an embedder for the configured endpoint and model.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}

	opts := make([]option.RequestOption, 0, 2)
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	return &OpenAIEmbedder{
		client: openai.NewEmbeddingService(opts...),
		model:  cfg.Model,
	}
}

// Embed returns the embedding vector for a single piece of text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}

	vector := make([]float32, len(res.Data[0].Embedding))
	for i, v := range res.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
