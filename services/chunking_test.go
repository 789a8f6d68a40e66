package services

import (
	"strings"
	"testing"
)

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	chunker := NewChunkingService(500, 100)

	chunks := chunker.ChunkText("doc-1", "A short document.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "A short document." {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
	if chunks[0].DocumentID != "doc-1" {
		t.Errorf("chunk not tagged with document id: %q", chunks[0].DocumentID)
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
}

func TestChunkTextNormalizesWhitespace(t *testing.T) {
	chunker := NewChunkingService(500, 100)

	chunks := chunker.ChunkText("doc-1", "  hello \n\n world\t\tagain  ")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "hello world again" {
		t.Errorf("whitespace not normalized: %q", chunks[0].Text)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewChunkingService(500, 100)

	if chunks := chunker.ChunkText("doc-1", "   \n\t "); chunks != nil {
		t.Errorf("expected nil for whitespace-only input, got %d chunks", len(chunks))
	}
}

func TestChunkTextOverlappingWindows(t *testing.T) {
	chunker := NewChunkingService(100, 20)

	// 450 chars of periodless text forces plain window splits
	text := strings.Repeat("abcdefghi ", 45)
	chunks := chunker.ChunkText("doc-1", text)

	if len(chunks) < 4 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
		if chunk.CharCount > 100 {
			t.Errorf("chunk %d exceeds window size: %d chars", i, chunk.CharCount)
		}
	}

	// Consecutive windows share overlapping text
	first := chunks[0].Text
	second := chunks[1].Text
	tail := first[len(first)-10:]
	if !strings.Contains(second, tail) {
		t.Errorf("expected chunk 1 to overlap with chunk 0 tail %q", tail)
	}
}

func TestChunkTextPrefersSentenceBoundary(t *testing.T) {
	chunker := NewChunkingService(100, 20)

	// A period sits at position ~80, past the midpoint of the 100-char window.
	text := strings.Repeat("word ", 16) + "end." + " " + strings.Repeat("tail ", 30)
	chunks := chunker.ChunkText("doc-1", text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "end.") {
		t.Errorf("expected first chunk to end at sentence boundary, got %q", chunks[0].Text)
	}
}

func TestChunkTextCoversWholeInput(t *testing.T) {
	chunker := NewChunkingService(120, 30)

	text := strings.Repeat("0123456789", 60)
	chunks := chunker.ChunkText("doc-1", text)

	last := chunks[len(chunks)-1].Text
	if !strings.HasSuffix(text, last) {
		t.Errorf("final chunk does not cover the end of the input")
	}
}

func TestChunkTextLargeOverlapStillMakesProgress(t *testing.T) {
	chunker := NewChunkingService(500, 300)

	// A period just past the window midpoint shortens the first window to
	// ~261 runes, less than the overlap. The next window must still start
	// after the previous one instead of walking backwards.
	text := strings.Repeat("a", 260) + ". " + strings.Repeat("b", 900)
	chunks := chunker.ChunkText("doc-1", text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
	}
	last := chunks[len(chunks)-1].Text
	if !strings.HasSuffix(text, last) {
		t.Errorf("final chunk does not cover the end of the input")
	}
}

func TestNewChunkingServiceSanitizesArguments(t *testing.T) {
	chunker := NewChunkingService(0, -5)
	if chunker.chunkSize != 500 {
		t.Errorf("expected default chunk size 500, got %d", chunker.chunkSize)
	}
	if chunker.overlap >= chunker.chunkSize {
		t.Errorf("overlap %d not smaller than chunk size %d", chunker.overlap, chunker.chunkSize)
	}
}
