package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedderConfig configures the OpenAI embedding adapter.
type OpenAIEmbedderConfig struct {
	// Model is the embedding model name, defaults to text-embedding-3-small.
	Model string
	// APIKey overrides the OPENAI_API_KEY environment variable.
	APIKey string
	// BaseURL overrides the API endpoint, for OpenAI-compatible providers.
	BaseURL string
}

// OpenAIEmbedder creates an embedder backed by the OpenAI embeddings API.
// Returned vectors are L2-normalized so that cosine similarity reduces to
// a dot product.
func OpenAIEmbedder(cfg OpenAIEmbedderConfig) (EmbedFunc, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	return func(text string) ([]float32, error) {
		if text == "" {
			return nil, fmt.Errorf("cannot embed empty text")
		}

		resp, err := client.CreateEmbeddings(context.Background(), openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(model),
			Input: []string{text},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		embedding := resp.Data[0].Embedding
		l2normalize(embedding)
		return embedding, nil
	}, nil
}

// l2normalize scales v to unit length in place. Zero vectors are left
// untouched.
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
}
