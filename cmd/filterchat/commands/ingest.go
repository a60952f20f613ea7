package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/filterchat/filterchat-go/internal/catalog"
	"github.com/filterchat/filterchat-go/internal/embedder"
	"github.com/filterchat/filterchat-go/internal/logging"
)

// NewIngestCmd constructs the `filterchat ingest` command, which embeds the
// filter catalog and writes it to the Qdrant vector index.
func NewIngestCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index the filter catalog into the Qdrant vector store",
		Long: `Embed every filter definition in the catalog and upsert it into the
Qdrant vector store so the matcher can search it semantically. Re-running
ingestion over the same catalog updates entries in place.

Required environment variables:
  QDRANT_HOST          Qdrant server hostname (default: localhost)
  QDRANT_PORT          Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION    Collection name (default: filterchat-catalog)
  QDRANT_API_KEY       Optional API key for authenticated clusters
  EMBEDDING_PROVIDER   Embedding backend: ollama, openai, azure (default: ollama)
  EMBEDDING_ENDPOINT   Embedding server URL for the ollama backend
  EMBEDDING_API_KEY    API key for the openai and azure backends
  EMBEDDING_MODEL      Embedding model name override

Examples:
  filterchat ingest
  filterchat ingest --catalog ./filters.json
  EMBEDDING_PROVIDER=openai filterchat ingest --catalog ./filters.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			defs := catalog.Sample()
			if catalogPath != "" {
				var err error
				defs, err = catalog.Load(catalogPath)
				if err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
				log.Info("catalog loaded", slog.String("path", catalogPath), slog.Int("definitions", len(defs)))
			} else {
				log.Info("no --catalog given, using the built-in sample catalog", slog.Int("definitions", len(defs)))
			}

			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("ingest: failed to initialise embedder: %w", err)
			}
			log.Info("embedder initialised", slog.String("backend", embedder.Backend()))

			qs, err := buildQdrantStore(ctx)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			defer qs.Close()

			ing, err := catalog.NewIngestor(emb, qs)
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			ing.Progress = func(done, total int) {
				log.Info("indexing catalog", slog.Int("done", done), slog.Int("total", total))
			}

			n, err := ing.Ingest(ctx, defs)
			if err != nil {
				return fmt.Errorf("ingest: failed after %d definitions: %w", n, err)
			}

			log.Info("ingestion complete", slog.Int("definitions", n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Path to a JSON filter catalog (default: built-in sample)")

	return cmd
}
