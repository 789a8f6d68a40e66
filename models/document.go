package models

import "time"

// Document represents an uploaded PDF during processing. Documents are not
// persisted; only their chunk vectors survive in the vector database.
type Document struct {
	ID         string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	ChunkCount int       `json:"chunks_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is a bounded substring of a document's extracted text.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Index      int    `json:"index"`
	CharCount  int    `json:"char_count"`
}

// SearchResult pairs a stored chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id,omitempty"`
}
