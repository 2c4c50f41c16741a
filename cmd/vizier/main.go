// Command vizier indexes BI platform metadata and makes it searchable
// from the command line, a TUI, or an MCP server.
package main

import (
	"os"

	"github.com/custodia-labs/vizier-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
