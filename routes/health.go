package routes

import (
	"net/http"

	"rag-context-service/utils"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes registers the health check endpoint.
func SetupHealthRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/health", HandleHealth())
}

// HandleHealth reports service liveness.
func HandleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.RespondWithSuccess(c, http.StatusOK, "healthy", "RAG API endpoint active", nil)
	}
}

// HandleNotFound is the engine-level fallback for unregistered paths.
func HandleNotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.RespondWithNotFound(c, "Route not found")
	}
}
