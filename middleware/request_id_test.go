package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		*captured = GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	var captured string
	router := requestIDRouter(&captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	if captured == "" {
		t.Fatal("expected a generated request id in the handler context")
	}
	if got := w.Header().Get(RequestIDHeader); got != captured {
		t.Errorf("response header %q does not match context id %q", got, captured)
	}
}

func TestRequestIDMiddlewarePreservesIncomingID(t *testing.T) {
	var captured string
	router := requestIDRouter(&captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-abc-123")
	router.ServeHTTP(w, req)

	if captured != "req-abc-123" {
		t.Errorf("context id = %q, want req-abc-123", captured)
	}
	if got := w.Header().Get(RequestIDHeader); got != "req-abc-123" {
		t.Errorf("response header = %q, want req-abc-123", got)
	}
}
