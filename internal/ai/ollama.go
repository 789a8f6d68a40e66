package ai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"

	"github.com/ollama/ollama/api"
	"github.com/sony/gobreaker"
)

const (
	// Chunks are bounded by the chunker, but queries are user input and can
	// exceed what embedding models accept.
	maxEmbedInputChars = 2048

	embedMaxRetries = 3
	embedBaseDelay  = 1 * time.Second
)

// OllamaEmbedder produces embeddings from a local Ollama server.
type OllamaEmbedder struct {
	client  *api.Client
	model   string
	dim     int
	breaker *gobreaker.CircuitBreaker
}

func NewOllamaEmbedder(cfg *config.Config) (*OllamaEmbedder, error) {
	base, err := url.Parse(cfg.OllamaHost)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST URL: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	return &OllamaEmbedder{
		client:  api.NewClient(base, httpClient),
		model:   cfg.OllamaEmbeddingsModel,
		dim:     cfg.VectorDimensions,
		breaker: newEmbeddingBreaker("OllamaEmbeddings"),
	}, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dim
}

func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d/%d: %w", i+1, len(texts), err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if truncated := truncateRunes(text, maxEmbedInputChars); len(truncated) != len(text) {
		text = truncated
		logger.Debug("Embedding input truncated", "max_chars", maxEmbedInputChars)
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.embedWithRetry(ctx, text)
	})
	if err != nil {
		return nil, err
	}
	return result.([]float32), nil
}

// truncateRunes cuts s to at most n runes, never splitting a multi-byte
// character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// embedWithRetry retries transient failures with exponential backoff.
func (e *OllamaEmbedder) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	}

	var lastErr error
	for attempt := 0; attempt < embedMaxRetries; attempt++ {
		reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		resp, err := e.client.Embeddings(reqCtx, req)
		cancel()

		if err == nil {
			vec := make([]float32, len(resp.Embedding))
			for i, v := range resp.Embedding {
				vec[i] = float32(v)
			}
			if len(vec) != e.dim {
				return nil, fmt.Errorf("model %q returned %d-dimensional vector, collection expects %d", e.model, len(vec), e.dim)
			}
			return vec, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		delay := time.Duration(math.Pow(2, float64(attempt))) * embedBaseDelay
		logger.Warn("Embedding attempt failed", "attempt", attempt+1, "max", embedMaxRetries, "retry_in", delay.String(), "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", embedMaxRetries, lastErr)
}
