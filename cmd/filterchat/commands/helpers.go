package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/filterchat/filterchat-go/internal/embedder"
	"github.com/filterchat/filterchat-go/internal/index"
	"github.com/filterchat/filterchat-go/internal/llm"
	"github.com/filterchat/filterchat-go/internal/pipeline"
	"github.com/filterchat/filterchat-go/internal/provider"
	"github.com/filterchat/filterchat-go/internal/store"
)

// buildQdrantStore connects to the vector index using QDRANT_* environment
// variables, sizing the collection for the active embedding backend.
func buildQdrantStore(ctx context.Context) (*index.QdrantStore, error) {
	cfg := &index.QdrantConfig{
		Host:       getEnvOrDefault("QDRANT_HOST", "localhost"),
		Port:       getEnvInt("QDRANT_PORT", 6334),
		Collection: getEnvOrDefault("QDRANT_COLLECTION", "filterchat-catalog"),
		VectorSize: embedder.DefaultDimensions(embedder.Backend()),
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	}
	qs, err := index.NewQdrantStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return qs, nil
}

// buildPipeline wires the model, embedder, and vector index into a ready
// pipeline. It returns the LLM client and store as well so callers can build
// readiness pingers and close the store on shutdown.
func buildPipeline(ctx context.Context, log *slog.Logger) (*pipeline.Pipeline, llm.Client, *index.QdrantStore, error) {
	chatModel, err := provider.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}
	log.Info("provider initialised", slog.String("provider", getEnvOrDefault("MODEL_PROVIDER", "ollama")))

	client, err := llm.NewEinoClient(chatModel, getEnvInt("MODEL_RETRIES", llm.DefaultRetries))
	if err != nil {
		return nil, nil, nil, err
	}

	emb, err := embedder.NewFromEnv(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialise embedder: %w", err)
	}
	log.Info("embedder initialised", slog.String("backend", embedder.Backend()))

	qs, err := buildQdrantStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	maskPII := os.Getenv("FILTERCHAT_PII_MASKING") == "true"
	pipe, err := pipeline.New(client, emb, qs, maskPII)
	if err != nil {
		qs.Close()
		return nil, nil, nil, err
	}

	return pipe, client, qs, nil
}

// openHistory opens the session history store. FILTERCHAT_HISTORY_DB
// overrides the default path (~/.filterchat/history.db); the value
// "disabled" turns history off. Failures degrade to no history rather than
// aborting startup.
func openHistory(log *slog.Logger) store.HistoryStore {
	dbPath := os.Getenv("FILTERCHAT_HISTORY_DB")
	if dbPath == "disabled" {
		log.Info("history: disabled via FILTERCHAT_HISTORY_DB=disabled")
		return nil
	}
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			log.Warn("history: could not resolve default DB path, disabling", slog.Any("error", err))
			return nil
		}
	}
	hs, err := store.Open(dbPath)
	if err != nil {
		log.Warn("history: failed to open store, disabling", slog.Any("error", err))
		return nil
	}
	log.Info("history: store opened", slog.String("path", dbPath))
	return hs
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
