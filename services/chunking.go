package services

import (
	"regexp"
	"strings"

	"rag-context-service/models"

	"github.com/google/uuid"
)

// ChunkingService splits extracted text into overlapping windows suitable
// for embedding. Windows prefer to end on a sentence boundary when one falls
// past the midpoint of the window.
type ChunkingService struct {
	chunkSize  int
	overlap    int
	spaceRegex *regexp.Regexp
}

// NewChunkingService creates a chunker. chunkSize and overlap are measured in
// characters; overlap must be smaller than chunkSize.
func NewChunkingService(chunkSize, overlap int) *ChunkingService {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &ChunkingService{
		chunkSize:  chunkSize,
		overlap:    overlap,
		spaceRegex: regexp.MustCompile(`\s+`),
	}
}

// ChunkText converts text into overlapping chunks tagged with the document ID.
// Whitespace runs are collapsed first so window sizes are stable across PDFs
// with odd line breaking.
func (s *ChunkingService) ChunkText(documentID, text string) []models.Chunk {
	normalized := strings.TrimSpace(s.spaceRegex.ReplaceAllString(text, " "))
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	if len(runes) <= s.chunkSize {
		return []models.Chunk{s.newChunk(documentID, normalized, 0)}
	}

	var chunks []models.Chunk
	start := 0

	for start < len(runes) {
		end := start + s.chunkSize

		if end < len(runes) {
			// Avoid cutting mid-sentence when a period falls in the
			// second half of the window.
			if p := lastPeriod(runes, start, end); p != -1 && p > start+s.chunkSize/2 {
				end = p + 1
			}
		} else {
			end = len(runes)
		}

		chunkText := strings.TrimSpace(string(runes[start:end]))
		if chunkText != "" {
			chunks = append(chunks, s.newChunk(documentID, chunkText, len(chunks)))
		}

		if end >= len(runes) {
			break
		}
		// Sentence-boundary shortening can pull end back far enough that
		// end - overlap lands at or before start; always move forward.
		if next := end - s.overlap; next > start {
			start = next
		} else {
			start = end
		}
	}

	return chunks
}

func (s *ChunkingService) newChunk(documentID, text string, index int) models.Chunk {
	return models.Chunk{
		ChunkID:    uuid.NewString(),
		DocumentID: documentID,
		Text:       text,
		Index:      index,
		CharCount:  len([]rune(text)),
	}
}

// lastPeriod returns the index of the last '.' in runes[start:end), or -1.
func lastPeriod(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == '.' {
			return i
		}
	}
	return -1
}
