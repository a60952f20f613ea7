package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/filterchat/filterchat-go/internal/logging"
	"github.com/filterchat/filterchat-go/internal/server"
	"github.com/filterchat/filterchat-go/internal/tracing"
)

// NewServeCmd constructs the `filterchat serve` command, which starts the
// HTTP server exposing the filter-resolution API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the filterchat HTTP server",
		Long: `Start the filterchat HTTP server on localhost.

The server exposes POST /api/chat for filter resolution, plus health,
readiness, and Prometheus metrics endpoints. The caller supplies the
session's current active filters each turn and receives the updated set.

Examples:
  filterchat serve
  filterchat serve --port 9090
  MODEL_PROVIDER=azure filterchat serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Langfuse tracing is opt-in, a no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			pipe, client, qs, err := buildPipeline(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer qs.Close()

			history := openHistory(log)
			if history != nil {
				defer func() { _ = history.Close() }()
			}

			pingers := []server.Pinger{
				server.NewQdrantPinger(qs),
				server.NewLLMPinger(client, getEnvOrDefault("MODEL_PROVIDER", "ollama")),
			}

			srv, err := server.New(pipe, history, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
				APIKey:  os.Getenv("FILTERCHAT_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
