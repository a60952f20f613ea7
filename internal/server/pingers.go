package server

import (
	"context"
	"fmt"

	"github.com/filterchat/filterchat-go/internal/index"
	"github.com/filterchat/filterchat-go/internal/llm"
)

// QdrantPinger probes the vector index using its native health check RPC.
// It satisfies the Pinger interface and is used by GET /api/ready.
type QdrantPinger struct {
	// store is the vector index to probe.
	store *index.QdrantStore
}

// NewQdrantPinger constructs a QdrantPinger for the given store.
func NewQdrantPinger(store *index.QdrantStore) *QdrantPinger {
	return &QdrantPinger{store: store}
}

// Name returns the dependency label used in readiness responses.
func (p *QdrantPinger) Name() string { return "qdrant" }

// Ping calls the store's health check.
func (p *QdrantPinger) Ping(ctx context.Context) error {
	return p.store.HealthCheck(ctx)
}

// LLMPinger probes the model backend with a minimal generate request. The
// probe consumes a few tokens, which is why /api/ready is the only caller.
type LLMPinger struct {
	// client is the LLM client to probe.
	client llm.Client
	// name identifies the backend in readiness responses (e.g. "ollama").
	name string
}

// NewLLMPinger constructs an LLMPinger for the given client and backend name.
func NewLLMPinger(client llm.Client, name string) *LLMPinger {
	return &LLMPinger{client: client, name: name}
}

// Name returns the backend label used in readiness responses.
func (p *LLMPinger) Name() string { return p.name }

// Ping sends a trivial prompt and checks a non-empty answer comes back.
func (p *LLMPinger) Ping(ctx context.Context) error {
	resp, err := p.client.Generate(ctx, "Reply with the single word: pong", "ping", false)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}
	if resp == "" {
		return fmt.Errorf("generate returned an empty response")
	}
	return nil
}
