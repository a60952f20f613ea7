// Package commands defines all Cobra CLI commands for the filterchat binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/filterchat/filterchat-go/internal/audit"
	"github.com/filterchat/filterchat-go/internal/config"
	"github.com/filterchat/filterchat-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "filterchat",
		Short: "filterchat turns free-text queries into structured data filters",
		Long: `filterchat converts natural-language queries like "clients over 60 with
balance above 10k" into structured, applied data filters, using an LLM for
concept extraction and a vector index over the filter catalog for matching.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.filterchat/config.yaml).
See 'filterchat --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.filterchat/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewChatCmd(),
		NewIngestCmd(),
		NewVersionCmd(),
	)

	return root
}
