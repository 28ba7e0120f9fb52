package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"notemind-ai/internal/config"
	"notemind-ai/internal/http"
	"notemind-ai/internal/indexer"
	"notemind-ai/internal/llm"
	"notemind-ai/internal/rag"
	"notemind-ai/internal/service"
	"notemind-ai/internal/storage"
	"notemind-ai/internal/tasks"
	"notemind-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
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

	noteRepo := storage.NewNoteRepo(db)
	chunkRepo := storage.NewChunkRepo(db)

	// The gateway starts enabled only with a plausible credential; a missing
	// or placeholder key means text-search-only mode from the start.
	embeddingsEnabled := cfg.EmbeddingsConfigured()
	if !embeddingsEnabled {
		slog.Warn("Embedding credential missing or invalid, starting in text-search-only mode")
	}

	embedder := llm.NewEmbeddingsClient(
		cfg.EmbeddingBaseURL,
		cfg.EmbeddingAPIKey,
		cfg.EmbeddingModelName,
		cfg.EmbeddingDims,
		cfg.EmbeddingTimeout,
		cfg.EmbeddingRetries,
	)
	gateway := llm.NewGateway(embedder, embeddingsEnabled)

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	if embeddingsEnabled {
		ctx := context.Background()
		if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.EmbeddingDims); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingDims)
	}

	pipeline := indexer.NewPipeline(noteRepo, chunkRepo, gateway, vectorStore, cfg.QdrantCollection)
	engine := rag.NewEngine(chunkRepo, gateway, vectorStore, cfg.QdrantCollection)

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	chatService := service.NewChatService(engine, llmClient)

	runner := tasks.NewRunner()

	deps := &http.Deps{
		DB:          db,
		NoteRepo:    noteRepo,
		Pipeline:    pipeline,
		Engine:      engine,
		ChatService: chatService,
		Runner:      runner,
		Embeddings:  gateway,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr, "embeddings_enabled", gateway.IsEnabled())
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
