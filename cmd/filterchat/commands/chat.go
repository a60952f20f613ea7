package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/filterchat/filterchat-go/internal/logging"
	"github.com/filterchat/filterchat-go/internal/pipeline"
	"github.com/filterchat/filterchat-go/internal/store"
	"github.com/filterchat/filterchat-go/internal/tracing"
)

// NewChatCmd constructs the `filterchat chat` command: an interactive
// console session that keeps the active-filter set across turns.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive filter-resolution session",
		Long: `Start an interactive console session against the filter catalog.

Each line you type is resolved into filters; the active-filter set carries
over between turns so you can refine, replace, and drop filters
conversationally. Type "reset" to clear the filter set and "exit" to leave.

Examples:
  filterchat chat
  MODEL_PROVIDER=openai filterchat chat`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
			}

			pipe, _, qs, err := buildPipeline(ctx, log)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}
			defer qs.Close()

			history := openHistory(log)
			if history != nil {
				defer func() { _ = history.Close() }()
			}

			fmt.Println("filterchat interactive session. Type a query, \"reset\" to clear filters, or \"exit\" to quit.")

			var active []pipeline.ActiveFilter
			var sessionID string

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())

				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				case "reset":
					active = nil
					fmt.Println("Cleared all filters.")
					continue
				}

				state, err := pipe.Run(ctx, pipeline.State{
					Query:         line,
					ActiveFilters: active,
					SessionID:     sessionID,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}

				active = state.ActiveFilters
				sessionID = state.SessionID

				fmt.Println(state.Message)
				printFilters(active)
				printClarifications(state.ClarificationRequest)

				if history != nil {
					turn := store.Turn{Query: line, Message: state.Message, AppliedFilters: len(active)}
					_ = history.Append(ctx, sessionID, turn)
				}
			}

			return scanner.Err()
		},
	}

	return cmd
}

// printFilters renders the active-filter set as an indented list.
func printFilters(filters []pipeline.ActiveFilter) {
	if len(filters) == 0 {
		return
	}
	fmt.Println("Active filters:")
	for _, f := range filters {
		fmt.Printf("  - %s %s %v\n", f.FilterName, f.Operator, f.Value)
	}
}

// printClarifications renders pending clarification requests with their
// candidate options.
func printClarifications(clarifications []pipeline.FilterSuggestion) {
	for _, c := range clarifications {
		fmt.Printf("Which filter did you mean for %q?\n", c.ConceptText)
		for i, opt := range c.Options {
			fmt.Printf("  %d. %s %s %v\n", i+1, opt.FilterName, opt.Operator, opt.Value)
		}
	}
}
