package services

import (
	"context"
	"fmt"
	"strings"

	"rag-context-service/internal/ai"
	"rag-context-service/internal/logger"
	"rag-context-service/internal/vectordb"
)

// QueryExecutor answers queries by embedding them and retrieving the most
// similar stored chunks.
type QueryExecutor struct {
	embedder ai.Embedder
	store    vectordb.Store
	topK     int
	minScore float32
}

func NewQueryExecutor(embedder ai.Embedder, store vectordb.Store, topK int, minScore float32) *QueryExecutor {
	if topK <= 0 {
		topK = 5
	}
	return &QueryExecutor{
		embedder: embedder,
		store:    store,
		topK:     topK,
		minScore: minScore,
	}
}

// Execute embeds the query, searches the vector store, and joins the text of
// the matching chunks into a single context string. An empty string with a
// nil error means nothing relevant is stored.
func (q *QueryExecutor) Execute(ctx context.Context, query, userID string) (string, error) {
	vector, err := q.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := q.store.Search(ctx, vector, q.topK, q.minScore)
	if err != nil {
		return "", fmt.Errorf("failed to search vector store: %w", err)
	}

	if len(results) == 0 {
		logger.Debug("No relevant chunks found", "user_id", userID)
		return "", nil
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Chunk.Text == "" {
			continue
		}
		texts = append(texts, r.Chunk.Text)
	}

	logger.Debug("Retrieved relevant chunks",
		"count", len(results), "top_score", results[0].Score, "user_id", userID)
	return strings.Join(texts, "\n\n"), nil
}
