package services

import (
	"context"
	"fmt"
	"time"

	"rag-context-service/internal/ai"
	"rag-context-service/internal/logger"
	"rag-context-service/internal/vectordb"
	"rag-context-service/models"

	"github.com/google/uuid"
)

// DocumentService runs the ingestion pipeline:
// extract text -> chunk -> embed -> upsert into the vector store.
type DocumentService struct {
	extractor *PDFExtractor
	chunker   *ChunkingService
	embedder  ai.Embedder
	store     vectordb.Store
}

func NewDocumentService(extractor *PDFExtractor, chunker *ChunkingService, embedder ai.Embedder, store vectordb.Store) *DocumentService {
	return &DocumentService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
	}
}

// UploadResult summarizes a processed document.
type UploadResult struct {
	DocumentID string
	ChunkCount int
	Pages      int
	Method     string
	Duration   time.Duration
}

// ProcessPDF ingests one PDF. The returned document ID is freshly generated;
// the document itself is not persisted, only its chunk vectors are.
func (s *DocumentService) ProcessPDF(ctx context.Context, filename string, content []byte) (*UploadResult, error) {
	start := time.Now()

	extraction, err := s.extractor.ExtractText(ctx, content)
	if err != nil {
		return nil, err
	}

	doc := models.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		Size:       int64(len(content)),
		UploadedAt: start,
	}
	logger.Info("Extracted document text",
		"document_id", doc.ID, "filename", filename,
		"method", extraction.Method, "pages", extraction.Pages, "chars", extraction.CharacterCount)

	chunks := s.chunker.ChunkText(doc.ID, extraction.Text)
	if len(chunks) == 0 {
		return nil, ErrNoText
	}
	doc.ChunkCount = len(chunks)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d chunks: %w", len(chunks), err)
	}

	if _, err := s.store.UpsertChunks(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("failed to store embeddings for document %s: %w", doc.ID, err)
	}

	result := &UploadResult{
		DocumentID: doc.ID,
		ChunkCount: doc.ChunkCount,
		Pages:      extraction.Pages,
		Method:     extraction.Method,
		Duration:   time.Since(start),
	}

	logger.Info("Document processed",
		"document_id", doc.ID, "chunks", result.ChunkCount, "duration", result.Duration.String())
	return result, nil
}

// DeleteDocument removes all stored vectors belonging to a document.
func (s *DocumentService) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	logger.Info("Document vectors deleted", "document_id", documentID)
	return nil
}
