package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vectorvision/internal/collection"
	"vectorvision/internal/config"
	"vectorvision/internal/contextutil"
	"vectorvision/internal/embedding"
	"vectorvision/internal/handlers"
	"vectorvision/internal/http"
	"vectorvision/internal/ingest"
	"vectorvision/internal/library"
	"vectorvision/internal/navigation"
	"vectorvision/internal/retrieval"
	"vectorvision/internal/storage"
	"vectorvision/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	folderRepo := storage.NewFolderRepo(db)
	fileRepo := storage.NewFileRepo(db)

	vectorStore, err := openVectorStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open vector store: %v", err)
	}
	defer func() {
		_ = vectorStore.Close()
	}()

	if err := vectorStore.Ping(ctx); err != nil {
		log.Fatalf("Vector store heartbeat failed: %v", err)
	}

	// Create the collection on first run, reopen it afterwards
	if err := vectorStore.EnsureCollection(ctx, cfg.Collection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure collection: %v", err)
	}
	slog.Info("Vector collection ready", "backend", cfg.VectorBackend, "collection", cfg.Collection, "vector_size", cfg.VectorSize)

	if cfg.EmbeddingAutoload {
		loadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		err := embedding.NewModelLoader(cfg.EmbeddingBaseURL).Load(loadCtx, cfg.EmbeddingModelName)
		cancel()
		if err != nil {
			log.Fatalf("Failed to load embedding model: %v", err)
		}
	}

	// Validate embedding client vector size (fail-fast)
	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.VectorSize,
		embedding.WithRateLimit(cfg.EmbeddingRateLimit),
	)
	if _, err := embedder.EmbedTexts(ctx, []string{"test"}); err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	slog.Info("Embedding client validated", "model", cfg.EmbeddingModelName, "vector_size", cfg.VectorSize)

	images := collection.New(vectorStore, embedder, cfg.Collection)
	tracker := ingest.NewTracker(ingest.NewPipeline(fileRepo, images, cfg.DedupFileRecords))
	lib := library.NewManager(folderRepo, fileRepo, tracker)
	navigator := navigation.New()
	retrievalService := retrieval.NewService(images, navigator, cfg.ResultLimit)

	usage, err := handlers.NewUsageHandler()
	if err != nil {
		log.Fatalf("Failed to render usage page: %v", err)
	}

	router := http.NewRouter(&http.Deps{
		Library:   lib,
		Tasks:     tracker,
		Retrieval: retrievalService,
		Navigator: navigator,
		Checks: map[string]handlers.Check{
			"registry":     db.PingContext,
			"vector_store": images.Ping,
		},
		Usage: usage,
	})

	// Re-ingest registered folders in the background after the router is ready
	if _, err := lib.ResumeAll(ctx); err != nil {
		slog.Error("Failed to resume ingestion", "error", err)
	}

	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}

	slog.Info("Waiting for ingestion tasks to finish")
	tracker.Wait()
}

func openVectorStore(cfg *config.Config) (vectorstore.VectorStore, error) {
	switch cfg.VectorBackend {
	case config.BackendQdrant:
		return vectorstore.NewQdrantStore(cfg.QdrantURL)
	case config.BackendSQLiteVec:
		return vectorstore.NewSQLiteVecStore(cfg.VectorDir)
	case config.BackendMemory:
		return vectorstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
