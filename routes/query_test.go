package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

type fakeQueryService struct {
	context string
	err     error
	lastQ   string
	lastUID string
}

func (f *fakeQueryService) Execute(ctx context.Context, query, userID string) (string, error) {
	f.lastQ = query
	f.lastUID = userID
	return f.context, f.err
}

func postQuery(t *testing.T, svc QueryService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupQueryRoutes(router, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestQueryReturnsContext(t *testing.T) {
	svc := &fakeQueryService{context: "relevant chunk one\n\nrelevant chunk two"}

	w := postQuery(t, svc, `{"query": "what happened?", "user_id": "u-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "success" {
		t.Errorf("expected success status, got %v", body["status"])
	}
	if body["context"] != svc.context {
		t.Errorf("context = %v, want %q", body["context"], svc.context)
	}
	if svc.lastQ != "what happened?" || svc.lastUID != "u-1" {
		t.Errorf("service received query=%q user=%q", svc.lastQ, svc.lastUID)
	}
}

func TestQueryEmptyContextStillSucceeds(t *testing.T) {
	w := postQuery(t, &fakeQueryService{context: ""}, `{"query": "nothing matches"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["context"] != "" {
		t.Errorf("expected empty context, got %v", body["context"])
	}
}

func TestQueryRejectsEmptyQuery(t *testing.T) {
	for _, payload := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		w := postQuery(t, &fakeQueryService{}, payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("payload %s: expected 400, got %d", payload, w.Code)
		}
	}
}

func TestQueryRejectsInvalidJSON(t *testing.T) {
	w := postQuery(t, &fakeQueryService{}, `{"query":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	got := truncate(strings.Repeat("é", 100), 10)
	if !utf8.ValidString(got) {
		t.Fatal("truncated string is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 10 {
		t.Errorf("truncated to %d runes, want 10", n)
	}
}

func TestQueryServiceError(t *testing.T) {
	w := postQuery(t, &fakeQueryService{err: fmt.Errorf("backend down")}, `{"query": "hello"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
