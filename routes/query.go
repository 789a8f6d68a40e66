package routes

import (
	"context"
	"net/http"
	"strings"

	"rag-context-service/internal/logger"
	"rag-context-service/middleware"
	"rag-context-service/models"
	"rag-context-service/utils"

	"github.com/gin-gonic/gin"
)

// QueryService is the retrieval surface the query handler depends on.
type QueryService interface {
	Execute(ctx context.Context, query, userID string) (string, error)
}

// SetupQueryRoutes registers the query endpoint.
func SetupQueryRoutes(router *gin.Engine, queries QueryService) {
	api := router.Group("/api")
	api.POST("/query", HandleQuery(queries))
}

// HandleQuery embeds the query, retrieves the most similar chunks, and
// returns their concatenated text as context.
func HandleQuery(queries QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", nil)
			return
		}

		if strings.TrimSpace(req.Query) == "" {
			logger.Warn("Empty query received")
			utils.RespondWithBadRequest(c, "Query cannot be empty", nil)
			return
		}

		logger.Info("Processing query",
			"request_id", middleware.GetRequestID(c),
			"query_prefix", truncate(req.Query, 100), "user_id", req.UserID)

		contextText, err := queries.Execute(c.Request.Context(), req.Query, req.UserID)
		if err != nil {
			logger.CaptureError(err, "Query processing failed")
			utils.RespondWithInternalError(c, "Error processing query", nil)
			return
		}

		message := "Query processed successfully"
		if contextText == "" {
			message = "No relevant context found"
		}

		utils.RespondWithSuccess(c, http.StatusOK, "success", message, gin.H{
			"context": contextText,
		})
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
