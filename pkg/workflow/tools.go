package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// ToolKind describes one kind of agent-side tool a workflow can ask the
// agent to call.
type ToolKind struct {
	Name        string
	Description string
	Params      map[string]*schema.ParameterInfo
}

// Info returns the eino descriptor of the tool kind.
func (k ToolKind) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        k.Name,
		Desc:        k.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(k.Params),
	}
}

// Tool binds prompts to a tool kind whose input shape is T.
type Tool[T any] struct {
	kind ToolKind
}

// NewTool creates a tool helper for kind.
func NewTool[T any](kind ToolKind) Tool[T] {
	return Tool[T]{kind: kind}
}

// Kind returns the tool kind.
func (t Tool[T]) Kind() ToolKind { return t.kind }

// Goal asks the agent to call the tool to achieve a free-text goal.
func (t Tool[T]) Goal(f *Flow, goal string, result Schema) (any, error) {
	return f.Prompt(goalTask(t.kind.Name, goal), result)
}

// Props asks the agent to call the tool with the given properties. Fields
// tagged omitempty that are left at their zero value are not sent, so props
// may be a partial property bag.
func (t Tool[T]) Props(f *Flow, props T, result Schema) (any, error) {
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode %s props: %w", t.kind.Name, err)
	}
	return f.Prompt(propsTask(t.kind.Name, string(data)), result)
}

// AskTool calls the tool towards goal and returns a result of type R.
func AskTool[R, T any](f *Flow, t Tool[T], goal string) (R, error) {
	return as[R](t.Goal(f, goal, MustFor[R]()))
}

func goalTask(name, goal string) string {
	return fmt.Sprintf("MUST call **%s** tool to achieve `%s`", name, goal)
}

func propsTask(name, props string) string {
	return fmt.Sprintf("MUST call **%s** tool with props `%s`", name, props)
}
