package ai

import (
	"context"
	"fmt"
	"time"

	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"

	"github.com/sony/gobreaker"
)

// Embedder maps text to fixed-dimension vectors. Both the document ingestion
// path and the query path go through this interface.
type Embedder interface {
	// EmbedTexts returns one vector per input text, in order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimension is the vector size this embedder produces. The vector
	// store's collection must be configured with the same dimension.
	Dimension() int
}

// NewEmbedder selects the embedding provider from configuration.
// Default provider is a local Ollama server.
func NewEmbedder(cfg *config.Config) (Embedder, error) {
	switch cfg.EmbeddingsProvider {
	case "ollama", "":
		return NewOllamaEmbedder(cfg)
	case "google":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
		}
		return NewGeminiEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embeddings provider: %s", cfg.EmbeddingsProvider)
	}
}

// newEmbeddingBreaker builds the circuit breaker shared by both providers.
// Sustained provider failures trip the breaker so requests fail fast instead
// of stacking up behind a dead embedding backend.
func newEmbeddingBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
