package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

var toolsVerbose bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the agent-side tools workflows can ask for",
	Long: `List the catalog of agent-side tools a workflow step can ask the
agent to call.

Examples:
  workflow-mcp tools            # Names and descriptions
  workflow-mcp tools --verbose  # Include parameters`,
	RunE: func(cmd *cobra.Command, args []string) error {
		writeTools(cmd.OutOrStdout(), workflow.Catalog(), toolsVerbose)
		return nil
	},
}

func init() {
	toolsCmd.Flags().BoolVarP(&toolsVerbose, "verbose", "v", false, "Include tool parameters")
}

func writeTools(out io.Writer, kinds []workflow.ToolKind, verbose bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tDESCRIPTION\t")
	for _, k := range kinds {
		info := k.Info()
		fmt.Fprintf(w, "%s\t%s\t\n", info.Name, info.Desc)
		if verbose {
			for _, line := range paramLines(k) {
				fmt.Fprintf(w, "\t%s\t\n", line)
			}
		}
	}
	w.Flush()
}

// paramLines renders the parameters of k sorted by name, required ones
// marked with a star.
func paramLines(k workflow.ToolKind) []string {
	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	dim := color.New(color.FgHiBlack).SprintFunc()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		p := k.Params[name]
		marker := " "
		if p.Required {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s", marker, name, dim(string(p.Type)), p.Desc))
	}
	if len(lines) == 0 {
		lines = append(lines, dim("no fixed parameters"))
	}
	return lines
}
