package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"
	"rag-context-service/services"
	"rag-context-service/utils"

	"github.com/gin-gonic/gin"
)

// DocumentProcessor is the ingestion surface the document handlers depend on.
type DocumentProcessor interface {
	ProcessPDF(ctx context.Context, filename string, content []byte) (*services.UploadResult, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// SetupDocumentRoutes registers the document upload and delete endpoints.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, docs DocumentProcessor) {
	api := router.Group("/api")
	api.POST("/documents", HandleDocumentUpload(cfg, docs))
	api.DELETE("/documents/:id", HandleDocumentDelete(docs))
}

// HandleDocumentUpload accepts a PDF via multipart form field "file",
// runs the ingestion pipeline, and reports the generated document ID.
func HandleDocumentUpload(cfg *config.Config, docs DocumentProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "no_file", "No PDF file provided", nil)
			return
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			logger.Warn("Invalid file type uploaded", "filename", header.Filename)
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_file_type", "Only PDF files are supported", nil)
			return
		}

		if header.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusBadRequest, "file_too_large", "File size exceeds maximum limit", gin.H{
				"max_bytes": cfg.MaxFileSize,
			})
			return
		}

		content, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}

		// Cheap signature check before handing the bytes to a parser
		if len(content) < 5 || string(content[:4]) != "%PDF" {
			utils.RespondWithError(c, http.StatusBadRequest, "invalid_pdf", "File does not appear to be a valid PDF", nil)
			return
		}

		logger.Info("Processing document upload", "filename", header.Filename, "size", header.Size)

		result, err := docs.ProcessPDF(c.Request.Context(), header.Filename, content)
		if err != nil {
			if errors.Is(err, services.ErrNoText) {
				utils.RespondWithError(c, http.StatusBadRequest, "no_text", "Could not extract text from PDF", nil)
				return
			}
			logger.CaptureError(err, "Document processing failed", "filename", header.Filename)
			utils.RespondWithInternalError(c, "Error processing document", nil)
			return
		}

		utils.RespondWithSuccess(c, http.StatusOK, "success", "Document processed and stored successfully", gin.H{
			"document_id":  result.DocumentID,
			"chunks_count": result.ChunkCount,
		})
	}
}

// HandleDocumentDelete removes all vectors stored for a document.
func HandleDocumentDelete(docs DocumentProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		documentID := c.Param("id")
		if strings.TrimSpace(documentID) == "" {
			utils.RespondWithBadRequest(c, "Document ID is required", nil)
			return
		}

		if err := docs.DeleteDocument(c.Request.Context(), documentID); err != nil {
			logger.CaptureError(err, "Document deletion failed", "document_id", documentID)
			utils.RespondWithInternalError(c, "Error deleting document", nil)
			return
		}

		utils.RespondWithSuccess(c, http.StatusOK, "success", "Document vectors deleted", gin.H{
			"document_id": documentID,
		})
	}
}
