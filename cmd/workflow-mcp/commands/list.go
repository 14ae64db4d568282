package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered workflows",
	Long: `List every registered workflow with its title and whether the
configuration exposes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return writeWorkflows(cmd.OutOrStdout(), a.cfg, a.reg)
	},
}

func writeWorkflows(out io.Writer, cfg *config.Config, reg *mcpserver.Registry) error {
	on := color.New(color.FgGreen).SprintFunc()
	off := color.New(color.FgHiBlack).SprintFunc()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tSTATUS\tDESCRIPTION\t")
	for _, e := range reg.Entries() {
		opts := presented(cfg, e)
		status := on("enabled")
		if !cfg.WorkflowEnabled(e.Name()) {
			status = off("disabled")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", e.Name(), opts.Title, status, opts.Description)
	}
	return w.Flush()
}

// presented returns the tool options of e after configuration overrides.
func presented(cfg *config.Config, e mcpserver.Entry) mcpserver.Options {
	opts := e.Options
	if override, ok := cfg.Workflow[e.Name()]; ok {
		if override.Title != "" {
			opts.Title = override.Title
		}
		if override.Description != "" {
			opts.Description = override.Description
		}
	}
	return opts
}
