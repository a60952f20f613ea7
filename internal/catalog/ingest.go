package catalog

import (
	"context"
	"fmt"

	"github.com/filterchat/filterchat-go/internal/index"
	"github.com/filterchat/filterchat-go/internal/logging"
)

// Ingestor embeds filter definitions and writes them to the vector index so
// the matcher can search them. Re-running ingestion over the same catalog
// updates entries in place.
type Ingestor struct {
	// embedder converts search texts into vectors.
	embedder index.Embedder

	// store receives the indexed entries.
	store index.Store

	// Progress, when set, is called after each persisted batch with the
	// number of entries written so far and the total.
	Progress func(done, total int)
}

// ingestBatchSize bounds how many definitions are embedded and upserted per
// round trip.
const ingestBatchSize = 8

// NewIngestor constructs an Ingestor over the given capabilities.
func NewIngestor(embedder index.Embedder, store index.Store) (*Ingestor, error) {
	if embedder == nil || store == nil {
		return nil, fmt.Errorf("catalog: embedder and store are required")
	}
	return &Ingestor{embedder: embedder, store: store}, nil
}

// Ingest indexes all definitions and returns the number written.
func (ing *Ingestor) Ingest(ctx context.Context, defs []FilterDefinition) (int, error) {
	logger := logging.FromContext(ctx)

	done := 0
	for start := 0; start < len(defs); start += ingestBatchSize {
		end := start + ingestBatchSize
		if end > len(defs) {
			end = len(defs)
		}
		batch := defs[start:end]

		entries := make([]index.Entry, len(batch))
		texts := make([]string, len(batch))
		for i := range batch {
			d := &batch[i]
			texts[i] = d.SearchText()
			entries[i] = index.Entry{
				ID:          d.ID,
				DisplayName: d.DisplayName,
				Description: d.Description,
				Category:    d.Category,
				Type:        d.Type,
				ControlType: d.ControlType,
				Operators:   d.Operators,
				Options:     d.Options,
				SearchText:  texts[i],
			}
		}

		vectors, err := ing.embedder.Embed(ctx, texts)
		if err != nil {
			return done, fmt.Errorf("catalog: embed batch: %w", err)
		}
		if err := ing.store.Upsert(ctx, entries, vectors); err != nil {
			return done, fmt.Errorf("catalog: index batch: %w", err)
		}

		done += len(batch)
		logger.Debug("indexed catalog batch", "done", done, "total", len(defs))
		if ing.Progress != nil {
			ing.Progress(done, len(defs))
		}
	}

	return done, nil
}
