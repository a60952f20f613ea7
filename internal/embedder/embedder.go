// Package embedder adapts Eino embedding components to the index.Embedder
// interface used by the filter matcher. It splits large inputs into bounded
// batches and converts the float64 vectors Eino produces into the float32
// vectors the vector index stores.
package embedder

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
)

// DefaultBatchSize is the number of texts embedded per upstream call when no
// explicit batch size is configured.
const DefaultBatchSize = 8

// Batcher implements index.Embedder on top of an Eino embedding model.
// It is safe for concurrent use if the underlying model is.
type Batcher struct {
	// model is the Eino embedding component doing the actual work.
	model embedding.Embedder

	// batchSize caps how many texts are sent per upstream call.
	batchSize int
}

// NewBatcher wraps an Eino embedding model. batchSize <= 0 selects
// DefaultBatchSize.
func NewBatcher(model embedding.Embedder, batchSize int) (*Batcher, error) {
	if model == nil {
		return nil, fmt.Errorf("embedder: model must not be nil")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Batcher{model: model, batchSize: batchSize}, nil
}

// Embed converts a batch of texts into their corresponding embeddings.
// The returned slice is parallel to the input slice. Inputs larger than the
// batch size are embedded in consecutive upstream calls.
func (b *Batcher) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := b.model.EmbedStrings(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embedder: embed batch [%d:%d]: %w", start, end, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("embedder: expected %d vectors, got %d", end-start, len(vectors))
		}

		for _, v := range vectors {
			out = append(out, toFloat32(v))
		}
	}

	return out, nil
}

// toFloat32 narrows an Eino float64 vector for storage in the vector index.
func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
