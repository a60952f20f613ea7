package embedder

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	ollamaEmbed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
)

// Default embedding models per backend.
const (
	defaultOllamaModel = "all-minilm"
	defaultOpenAIModel = "text-embedding-3-small"
)

// Backend returns the resolved embedding backend name. The embedding backend
// can diverge from the chat-model backend, so EMBEDDING_PROVIDER wins over
// MODEL_PROVIDER.
func Backend() string {
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("MODEL_PROVIDER"); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return "ollama"
}

// DefaultDimensions returns the embedding dimensionality for a backend,
// honouring an EMBEDDING_DIMENSIONS override. The value must match the
// vector index collection or searches return garbage.
func DefaultDimensions(backend string) uint64 {
	if v := os.Getenv("EMBEDDING_DIMENSIONS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	switch backend {
	case "openai", "azure":
		return 1536
	default:
		return 384
	}
}

// NewFromEnv constructs a batching embedder from environment configuration.
// Supported backends are "ollama" (the default) and "openai"; "azure" is an
// alias for "openai" since the OpenAI component accepts an Azure base URL.
func NewFromEnv(ctx context.Context) (*Batcher, error) {
	backend := Backend()
	batchSize := 0
	if v := os.Getenv("EMBEDDING_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			batchSize = n
		}
	}

	switch backend {
	case "ollama":
		baseURL := firstEnv("EMBEDDING_ENDPOINT", "OLLAMA_HOST")
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		model, err := ollamaEmbed.NewEmbedder(ctx, &ollamaEmbed.EmbeddingConfig{
			BaseURL: baseURL,
			Model:   getEnvDefault("EMBEDDING_MODEL", defaultOllamaModel),
		})
		if err != nil {
			return nil, fmt.Errorf("embedder: create ollama embedder: %w", err)
		}
		return NewBatcher(model, batchSize)

	case "openai", "azure":
		apiKey := firstEnv("EMBEDDING_API_KEY", "OPENAI_API_KEY", "AZURE_OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("embedder: %s backend requires EMBEDDING_API_KEY or OPENAI_API_KEY", backend)
		}
		model, err := openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
			Model:  getEnvDefault("EMBEDDING_MODEL", defaultOpenAIModel),
			APIKey: apiKey,
		})
		if err != nil {
			return nil, fmt.Errorf("embedder: create openai embedder: %w", err)
		}
		return NewBatcher(model, batchSize)

	default:
		return nil, fmt.Errorf("embedder: unsupported backend %q (supported: ollama, openai, azure)", backend)
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// getEnvDefault returns the variable's value or fallback when unset.
func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
