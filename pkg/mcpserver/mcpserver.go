// Package mcpserver exposes workflows as MCP tools on a mark3labs/mcp-go server.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opencode-ai/workflow-mcp/internal/format"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// Options describe how a workflow is presented as a tool.
type Options struct {
	// Title is the human-readable tool title.
	Title string
	// Description tells the agent when to start the workflow.
	Description string
	// Annotations are passed through to the tool definition. A non-empty
	// Title overrides Annotations.Title.
	Annotations *mcp.ToolAnnotation
}

// InputSchema returns the JSON schema shared by every workflow tool: two
// optional properties, "input" of any type and "error" as a string.
func InputSchema() (json.RawMessage, error) {
	doc, err := jsonschema.For[workflow.Args](nil)
	if err != nil {
		return nil, fmt.Errorf("infer input schema: %w", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode input schema: %w", err)
	}
	return data, nil
}

// NewTool builds the tool definition for a workflow called name.
func NewTool(name string, opts Options) (mcp.Tool, error) {
	schema, err := InputSchema()
	if err != nil {
		return mcp.Tool{}, err
	}

	// mcp.NewTool fills in a structured input schema, which cannot be
	// combined with a raw one.
	tool := mcp.NewToolWithRawSchema(name, opts.Description, schema)
	tool.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		IdempotentHint:  mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}
	if opts.Annotations != nil {
		mcp.WithToolAnnotation(*opts.Annotations)(&tool)
	}
	if opts.Title != "" {
		mcp.WithTitleAnnotation(opts.Title)(&tool)
	}
	return tool, nil
}

// Register adds wf to s as a tool named after the workflow and returns the
// handler that owns its sessions.
func Register(s *server.MCPServer, wf *workflow.Workflow, opts Options, hopts ...workflow.HandlerOption) (*workflow.Handler, error) {
	tool, err := NewTool(wf.Name(), opts)
	if err != nil {
		return nil, err
	}
	h := workflow.NewHandler(wf, hopts...)
	s.AddTool(tool, ToolHandler(h))
	return h, nil
}

// ToolHandler adapts a workflow handler to an mcp-go tool handler. The
// prompt is always returned as text content, never as a tool error: the
// workflow status travels inside the text.
func ToolHandler(h *workflow.Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ParseArguments(request.GetArguments())
		return mcp.NewToolResultText(h.Invoke(ctx, SessionID(ctx), args)), nil
	}
}

// ParseArguments extracts the workflow arguments from raw tool arguments.
// A non-string "error" is rendered to text.
func ParseArguments(raw map[string]any) workflow.Args {
	var args workflow.Args
	if raw == nil {
		return args
	}
	args.Input = raw["input"]
	switch e := raw["error"].(type) {
	case nil:
	case string:
		args.Error = e
	default:
		args.Error = format.Error(e)
	}
	return args
}

// SessionID returns the id of the MCP client session serving ctx, or ""
// when there is none.
func SessionID(ctx context.Context) string {
	if session := server.ClientSessionFromContext(ctx); session != nil {
		return session.SessionID()
	}
	return ""
}
