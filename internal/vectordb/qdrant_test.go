package vectordb

import (
	"testing"

	"rag-context-service/models"

	qdrant "github.com/qdrant/go-client/qdrant"
)

func TestChunkPayloadRoundTrip(t *testing.T) {
	chunk := models.Chunk{
		DocumentID: "doc-9",
		Index:      4,
		Text:       "some chunk text",
	}

	payload := chunkPayload(chunk)
	got := chunkFromPayload(payload)

	if got.DocumentID != chunk.DocumentID {
		t.Errorf("document id = %q, want %q", got.DocumentID, chunk.DocumentID)
	}
	if got.Index != chunk.Index {
		t.Errorf("index = %d, want %d", got.Index, chunk.Index)
	}
	if got.Text != chunk.Text {
		t.Errorf("text = %q, want %q", got.Text, chunk.Text)
	}
	if got.CharCount != len(chunk.Text) {
		t.Errorf("char count = %d, want %d", got.CharCount, len(chunk.Text))
	}
}

func TestChunkFromPayloadMissingKeys(t *testing.T) {
	got := chunkFromPayload(map[string]*qdrant.Value{})
	if got.DocumentID != "" || got.Text != "" || got.Index != 0 {
		t.Errorf("expected zero chunk for empty payload, got %+v", got)
	}
}

func TestDocumentFilterMatchesKeyword(t *testing.T) {
	filter := documentFilter("doc-7")

	if len(filter.Must) != 1 {
		t.Fatalf("expected a single condition, got %d", len(filter.Must))
	}
	field := filter.Must[0].GetField()
	if field == nil {
		t.Fatal("expected a field condition")
	}
	if field.Key != payloadDocumentID {
		t.Errorf("filter key = %q, want %q", field.Key, payloadDocumentID)
	}
	if field.GetMatch().GetKeyword() != "doc-7" {
		t.Errorf("filter keyword = %q, want doc-7", field.GetMatch().GetKeyword())
	}
}
