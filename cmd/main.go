package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-context-service/internal/ai"
	"rag-context-service/internal/config"
	"rag-context-service/internal/logger"
	"rag-context-service/internal/vectordb"
	"rag-context-service/middleware"
	"rag-context-service/routes"
	"rag-context-service/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Structured logging and error tracking
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatal("Failed to init logger:", err)
	}
	flushSentry, err := logger.InitSentry(cfg)
	if err != nil {
		log.Fatal("Failed to init Sentry:", err)
	}
	defer flushSentry()

	// Embedding provider
	embedder, err := ai.NewEmbedder(cfg)
	if err != nil {
		log.Fatal("Failed to init embedder:", err)
	}
	if closer, ok := embedder.(io.Closer); ok {
		defer closer.Close()
	}

	// Connect to Qdrant and make sure the collection exists
	store, err := vectordb.NewQdrantStore(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Qdrant:", err)
	}
	defer store.Close()

	ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureCollection(ensureCtx); err != nil {
		cancel()
		log.Fatal("Failed to ensure Qdrant collection:", err)
	}
	cancel()

	// Pipeline services
	extractor := services.NewPDFExtractor(cfg)
	chunker := services.NewChunkingService(cfg.ChunkSize, cfg.ChunkOverlap)
	documents := services.NewDocumentService(extractor, chunker, embedder, store)
	queries := services.NewQueryExecutor(embedder, store, cfg.TopK, float32(cfg.ScoreThreshold))

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.MaxMultipartMemory = cfg.MaxFileSize

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupHealthRoutes(router)
	routes.SetupDocumentRoutes(router, cfg, documents)
	routes.SetupQueryRoutes(router, queries)
	router.NoRoute(routes.HandleNotFound())

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "provider", cfg.EmbeddingsProvider, "collection", cfg.QdrantCollection)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
