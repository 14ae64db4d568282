package commands

import (
	"github.com/spf13/cobra"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the workflows over stdio",
	Long: `Serve the workflows as MCP tools over stdin and stdout.

This is the transport MCP hosts use when they spawn the server as a
subprocess. Logs never go to stdout; pass --print-logs to see them on
stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.serveStdio(cmd.Context())
	},
}
