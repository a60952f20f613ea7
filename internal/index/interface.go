// Package index defines the interfaces for the filter-catalog vector index:
// embedding, storage, and nearest-neighbour search over filter definitions.
// Concrete implementations (Qdrant, etc.) satisfy these interfaces so the
// resolution pipeline never depends on a specific backend.
package index

import (
	"context"
)

// Entry is one catalog filter as stored in the vector index. SearchText is
// the text that was embedded; the remaining fields are carried as payload
// and returned verbatim on search hits.
type Entry struct {
	// ID is the catalog identifier of the filter definition.
	ID string `json:"id"`

	// DisplayName is the filter's human-readable label.
	DisplayName string `json:"display_name"`

	// Description explains what the filter selects.
	Description string `json:"description"`

	// Category groups related filters and can scope searches.
	Category string `json:"category"`

	// Type is the filter's value type (STRING, NUMBER, DATE).
	Type string `json:"type"`

	// ControlType hints at the UI widget for this filter.
	ControlType string `json:"control_type"`

	// Operators is the set of comparison operators the filter supports.
	Operators []string `json:"operators,omitempty"`

	// Options is the closed value set for choice-style filters.
	Options []string `json:"options,omitempty"`

	// SearchText is the text embedded for this entry.
	SearchText string `json:"search_text"`
}

// Candidate is one ranked search hit: a catalog filter plus the similarity
// confidence assigned during retrieval.
type Candidate struct {
	// FilterID is the catalog identifier of the matched filter.
	FilterID string

	// DisplayName is the matched filter's label.
	DisplayName string

	// Description explains what the matched filter selects.
	Description string

	// Operators is the matched filter's supported operators.
	Operators []string

	// Options is the matched filter's closed value set, if any.
	Options []string

	// Confidence is derived from the index distance (1 - distance) and
	// clamped to [0, 1]. Higher is better.
	Confidence float32
}

// Store is the interface for persisting and searching catalog embeddings.
// Implementations must be safe to call from multiple goroutines.
type Store interface {
	// Upsert stores or updates a batch of catalog entries with their
	// pre-computed embeddings. vectors must be parallel to entries:
	// vectors[i] is the embedding of entries[i].SearchText.
	Upsert(ctx context.Context, entries []Entry, vectors [][]float32) error

	// Search returns up to topK candidates for the query vector, ranked by
	// similarity. Hits farther than maxDistance (cosine distance) are
	// excluded. A non-empty category restricts hits to that catalog category.
	Search(ctx context.Context, vector []float32, topK int, category string, maxDistance float32) ([]Candidate, error)

	// Close releases any resources held by the store.
	Close() error
}

// Embedder is the interface for converting text into dense vector embeddings.
// Implementations must be safe to call from multiple goroutines.
type Embedder interface {
	// Embed converts a batch of texts into their corresponding embeddings.
	// The returned slice is parallel to the input slice.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
