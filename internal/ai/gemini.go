package ai

import (
	"context"
	"fmt"

	"rag-context-service/internal/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"
)

// GeminiEmbedder produces embeddings through the Google Generative AI API
// (text-embedding-004 by default).
type GeminiEmbedder struct {
	client  *genai.Client
	model   string
	dim     int
	breaker *gobreaker.CircuitBreaker
}

func NewGeminiEmbedder(cfg *config.Config) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiEmbedder{
		client:  client,
		model:   cfg.GoogleEmbeddingsModel,
		dim:     cfg.VectorDimensions,
		breaker: newEmbeddingBreaker("GeminiEmbeddings"),
	}, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dim
}

func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		em := e.client.EmbeddingModel(e.model)
		batch := em.NewBatch()
		for _, t := range texts {
			batch.AddContent(genai.Text(t))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(texts) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
		}

		vectors := make([][]float32, len(resp.Embeddings))
		for i, emb := range resp.Embeddings {
			if emb == nil || len(emb.Values) == 0 {
				return nil, fmt.Errorf("no embedding returned for text %d", i)
			}
			if len(emb.Values) != e.dim {
				return nil, fmt.Errorf("model %q returned %d-dimensional vector, collection expects %d", e.model, len(emb.Values), e.dim)
			}
			vectors[i] = emb.Values
		}
		return vectors, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]float32), nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
