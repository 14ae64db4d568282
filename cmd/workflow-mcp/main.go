// Command workflow-mcp serves the reference workflows as MCP tools.
package main

import (
	"fmt"
	"os"

	"github.com/opencode-ai/workflow-mcp/cmd/workflow-mcp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
