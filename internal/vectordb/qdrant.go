package vectordb

import (
	"context"
	"fmt"

	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"
	"rag-context-service/models"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Store defines the vector database operations the pipeline depends on.
type Store interface {
	// UpsertChunks stores one point per chunk and returns the assigned point IDs.
	// len(chunks) must equal len(vectors).
	UpsertChunks(ctx context.Context, chunks []models.Chunk, vectors [][]float32) ([]string, error)

	// Search returns the chunks most similar to the query vector, best first.
	Search(ctx context.Context, vector []float32, limit int, minScore float32) ([]models.SearchResult, error)

	// DeleteDocument removes every point whose payload document_id matches.
	DeleteDocument(ctx context.Context, documentID string) error

	// Close releases the underlying connection.
	Close() error
}

// Payload keys for stored points.
const (
	payloadDocumentID = "document_id"
	payloadChunkIndex = "chunk_index"
	payloadText       = "text"
)

// QdrantStore talks to Qdrant over gRPC. The collection is created on first
// use with cosine distance and the configured vector dimension.
type QdrantStore struct {
	conn        *grpc.ClientConn
	collections qdrant.CollectionsClient
	points      qdrant.PointsClient
	collection  string
	dim         int
}

func NewQdrantStore(cfg *config.Config) (*QdrantStore, error) {
	addr := fmt.Sprintf("%s:%d", cfg.QdrantHost, cfg.QdrantPort)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", addr, err)
	}

	return &QdrantStore{
		conn:        conn,
		collections: qdrant.NewCollectionsClient(conn),
		points:      qdrant.NewPointsClient(conn),
		collection:  cfg.QdrantCollection,
		dim:         cfg.VectorDimensions,
	}, nil
}

// EnsureCollection creates the collection if it does not exist yet.
// An existing collection is left untouched; Qdrant rejects points whose
// dimension does not match its configuration.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	resp, err := s.collections.List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, col := range resp.GetCollections() {
		if col.GetName() == s.collection {
			logger.Debug("Qdrant collection already exists", "collection", s.collection)
			return nil
		}
	}

	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(s.dim),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %q: %w", s.collection, err)
	}

	logger.Info("Created Qdrant collection", "collection", s.collection, "dimension", s.dim)
	return nil
}

func (s *QdrantStore) UpsertChunks(ctx context.Context, chunks []models.Chunk, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	pointIDs := make([]string, len(chunks))
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != s.dim {
			return nil, fmt.Errorf("vector %d has dimension %d, collection expects %d", i, len(vectors[i]), s.dim)
		}

		pointIDs[i] = uuid.NewString()
		points[i] = &qdrant.PointStruct{
			Id: &qdrant.PointId{
				PointIdOptions: &qdrant.PointId_Uuid{Uuid: pointIDs[i]},
			},
			Vectors: &qdrant.Vectors{
				VectorsOptions: &qdrant.Vectors_Vector{
					Vector: &qdrant.Vector{Data: vectors[i]},
				},
			},
			Payload: chunkPayload(chunk),
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %d points: %w", len(points), err)
	}

	logger.Debug("Upserted points", "collection", s.collection, "count", len(points))
	return pointIDs, nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int, minScore float32) ([]models.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	req := &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	}
	if minScore > 0 {
		req.ScoreThreshold = &minScore
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Qdrant: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		results = append(results, models.SearchResult{
			Chunk: chunkFromPayload(point.GetPayload()),
			Score: point.GetScore(),
		})
	}
	return results, nil
}

func (s *QdrantStore) DeleteDocument(ctx context.Context, documentID string) error {
	wait := true
	_, err := s.points.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: documentFilter(documentID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points for document %s: %w", documentID, err)
	}
	return nil
}

func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// chunkPayload builds the stored payload: document id, chunk order, chunk text.
func chunkPayload(chunk models.Chunk) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		payloadDocumentID: {Kind: &qdrant.Value_StringValue{StringValue: chunk.DocumentID}},
		payloadChunkIndex: {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(chunk.Index)}},
		payloadText:       {Kind: &qdrant.Value_StringValue{StringValue: chunk.Text}},
	}
}

// chunkFromPayload is the inverse of chunkPayload for search results.
func chunkFromPayload(payload map[string]*qdrant.Value) models.Chunk {
	chunk := models.Chunk{}
	if v, ok := payload[payloadDocumentID]; ok {
		chunk.DocumentID = v.GetStringValue()
	}
	if v, ok := payload[payloadChunkIndex]; ok {
		chunk.Index = int(v.GetIntegerValue())
	}
	if v, ok := payload[payloadText]; ok {
		chunk.Text = v.GetStringValue()
		chunk.CharCount = len(chunk.Text)
	}
	return chunk
}

func documentFilter(documentID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{{
			ConditionOneOf: &qdrant.Condition_Field{
				Field: &qdrant.FieldCondition{
					Key: payloadDocumentID,
					Match: &qdrant.Match{
						MatchValue: &qdrant.Match_Keyword{Keyword: documentID},
					},
				},
			},
		}},
	}
}
