// Package commands provides the CLI commands for workflow-mcp.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/workflow-mcp/internal/config"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "workflow-mcp",
	Short: "workflow-mcp - resumable workflows behind MCP tools",
	Long: `workflow-mcp exposes multi-step workflows as MCP tools. An agent calls a
workflow tool repeatedly; every call returns the next task until the
workflow is done.

Without a subcommand the server runs on the transport named in the
configuration, stdio by default.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runDefault,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", "", "Directory to load project configuration from")

	rootCmd.SetVersionTemplate(fmt.Sprintf("workflow-mcp %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(describeCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

func runDefault(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Transport == config.TransportStdio {
		return a.serveStdio(cmd.Context())
	}
	return a.serveHTTP(cmd.Context(), a.cfg.Addr)
}
