package commands

import (
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workflows over HTTP",
	Long: `Serve the workflows over HTTP.

MCP clients connect with streamable HTTP on /mcp or with SSE on /sse.
The server also exposes /health, the /workflow operator API and an
event stream on /event.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.serveHTTP(cmd.Context(), serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")
}
