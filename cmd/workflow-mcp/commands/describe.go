package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

var describeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show a workflow tool or an agent-side tool",
	Long: `Show how a workflow is presented to MCP clients, including the
input schema every workflow tool shares. Agent-side tool names from
'workflow-mcp tools' are accepted as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return describe(cmd.OutOrStdout(), a.cfg, a.reg, args[0])
	},
}

func describe(out io.Writer, cfg *config.Config, reg *mcpserver.Registry, name string) error {
	heading := color.New(color.FgCyan, color.Bold).SprintFunc()

	if e, ok := reg.Get(name); ok {
		opts := presented(cfg, e)
		schema, err := mcpserver.InputSchema()
		if err != nil {
			return err
		}
		var pretty any
		if err := json.Unmarshal(schema, &pretty); err != nil {
			return err
		}
		doc, _ := json.MarshalIndent(pretty, "", "  ")

		fmt.Fprintf(out, "%s %s\n", heading("workflow"), e.Name())
		if opts.Title != "" {
			fmt.Fprintf(out, "%s %s\n", heading("title"), opts.Title)
		}
		fmt.Fprintf(out, "%s %s\n", heading("description"), opts.Description)
		fmt.Fprintf(out, "%s %t\n", heading("enabled"), cfg.WorkflowEnabled(e.Name()))
		fmt.Fprintf(out, "%s\n%s\n", heading("input schema"), doc)
		return nil
	}

	for _, k := range workflow.Catalog() {
		if k.Name == name {
			fmt.Fprintf(out, "%s %s\n", heading("tool"), k.Name)
			fmt.Fprintf(out, "%s %s\n", heading("description"), k.Description)
			fmt.Fprintln(out, heading("parameters"))
			for _, line := range paramLines(k) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		}
	}

	candidates := reg.Names()
	for _, k := range workflow.Catalog() {
		candidates = append(candidates, k.Name)
	}
	if s := suggest(name, candidates); len(s) > 0 {
		return fmt.Errorf("unknown workflow or tool %q, did you mean %q?", name, s[0])
	}
	return fmt.Errorf("unknown workflow or tool %q", name)
}

// suggest returns the candidates within a small edit distance of name,
// closest first.
func suggest(name string, candidates []string) []string {
	type match struct {
		name string
		dist int
	}
	limit := max(2, len(name)/3)

	var matches []match
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d <= limit {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
