// Command filterchat is the entry point for the filter-resolution service.
// It provides a CLI interface (via Cobra), an HTTP server, and an
// interactive console for turning free-text queries into data filters.
package main

import (
	"fmt"
	"os"

	"github.com/filterchat/filterchat-go/cmd/filterchat/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
