package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig holds connection parameters for a Qdrant vector index instance.
type QdrantConfig struct {
	// Host is the Qdrant server hostname (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the Qdrant collection name to use.
	Collection string

	// VectorSize is the dimensionality of the embeddings stored in this
	// collection. Must match the embedding model's output dimension.
	VectorSize uint64

	// APIKey is the optional Qdrant API key for authenticated clusters.
	APIKey string

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
}

// QdrantStore implements Store backed by a Qdrant instance with a cosine
// distance metric.
type QdrantStore struct {
	// client is the underlying Qdrant gRPC client.
	client *qdrant.Client

	// cfg holds the resolved configuration for this store.
	cfg *QdrantConfig
}

// NewQdrantStore creates a new QdrantStore, ensuring the target collection
// exists (creating it if necessary), and returns a ready-to-use Store.
func NewQdrantStore(ctx context.Context, cfg *QdrantConfig) (*QdrantStore, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 6334
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("index: failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{client: client, cfg: cfg}
	if err := store.ensureCollection(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureCollection creates the Qdrant collection if it does not already exist.
func (s *QdrantStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return fmt.Errorf("index: failed to check collection existence: %w", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.cfg.VectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("index: failed to create collection %q: %w", s.cfg.Collection, err)
	}

	return nil
}

// pointID derives a stable UUID point ID from a catalog entry ID, so
// re-ingesting the same catalog updates points in place.
func pointID(entryID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(entryID)).String()
}

// Upsert stores or updates a batch of catalog entries with their embeddings.
// The full entry is serialised into the "metadata" payload field; the
// category is duplicated as a top-level field so searches can filter on it.
func (s *QdrantStore) Upsert(ctx context.Context, entries []Entry, vectors [][]float32) error {
	if len(entries) != len(vectors) {
		return fmt.Errorf("index: %d entries but %d vectors", len(entries), len(vectors))
	}

	points := make([]*qdrant.PointStruct, 0, len(entries))
	for i, entry := range entries {
		meta, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("index: marshal entry %q: %w", entry.ID, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id: qdrant.NewIDUUID(pointID(entry.ID)),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"metadata": string(meta),
				"category": entry.Category,
				"text":     entry.SearchText,
			}),
			Vectors: qdrant.NewVectors(vectors[i]...),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.cfg.Collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("index: upsert failed: %w", err)
	}

	return nil
}

// Search performs a cosine similarity search and returns the top-k catalog
// candidates within maxDistance, ranked best-first. Confidence is reported
// as 1 - distance, clamped to [0, 1].
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int, category string, maxDistance float32) ([]Candidate, error) {
	limit := uint64(topK)
	query := &qdrant.QueryPoints{
		CollectionName: s.cfg.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	}

	// Cosine scores in Qdrant are similarities (higher is better), so a
	// distance ceiling translates to a similarity floor.
	if maxDistance > 0 {
		floor := 1 - maxDistance
		query.ScoreThreshold = &floor
	}

	if category != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("category", category),
			},
		}
	}

	results, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("index: search failed: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		payload := r.Payload
		if payload == nil {
			continue
		}
		metaVal, ok := payload["metadata"]
		if !ok {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(metaVal.GetStringValue()), &entry); err != nil {
			return nil, fmt.Errorf("index: corrupt metadata payload: %w", err)
		}

		candidates = append(candidates, Candidate{
			FilterID:    entry.ID,
			DisplayName: entry.DisplayName,
			Description: entry.Description,
			Operators:   entry.Operators,
			Options:     entry.Options,
			Confidence:  clampConfidence(r.Score),
		})
	}

	return candidates, nil
}

// clampConfidence bounds a similarity score to [0, 1]. Scores outside the
// range can occur with non-normalised vectors; the pipeline's thresholds
// assume the unit interval.
func clampConfidence(score float32) float32 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// HealthCheck probes the Qdrant instance for readiness.
func (s *QdrantStore) HealthCheck(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("index: health check failed: %w", err)
	}
	return nil
}

// Close closes the underlying Qdrant gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}
