package workflow

import (
	"fmt"

	"github.com/opencode-ai/workflow-mcp/internal/format"
)

// Status is the workflow status marker embedded in every rendered prompt.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Checkpoint is what a computation emits each time it suspends or terminates.
// A checkpoint with a Schema can only be advanced by a value that passes it.
type Checkpoint struct {
	Prompt string
	Schema Schema
}

// ReportedError is a failure reported by the caller through the "error"
// argument and raised at the suspension point of the computation.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string {
	return e.Message
}

const constraintsWithSchema = `<constraints>
1. MUST complete current task exactly as requested to continue workflow task by task. NEVER skip task.
2. BRANCHING:
  - ONLY if task failed OR cannot get task result: Call current MCP tool with message as "error", NEVER pass "error" to complete the workflow.
  - If task completed: Call current MCP tool with result as "input".
3. NEVER end responses while workflow status is "processing", MUST call current mcp tool to continue.
</constraints>`

const constraintsWithoutSchema = `<constraints>
1. MUST complete current task exactly as requested to continue workflow task by task. NEVER skip task.
2. BRANCHING:
  - ONLY if task failed: Call current MCP tool with message as "error", NEVER pass "error" to complete the workflow.
  - If task completed: Call current MCP tool with no props.
3. NEVER end responses while workflow status is "processing", MUST call current mcp tool to continue.
</constraints>`

func statusLine(s Status) string {
	return fmt.Sprintf("<workflow_status>%s</workflow_status>", s)
}

// renderTask builds the processing prompt for a task.
func renderTask(task string, schema Schema) string {
	text := statusLine(StatusProcessing) + "\n<task>\n" + task + "\n</task>\n"
	if schema == nil {
		return text + constraintsWithoutSchema
	}
	return text + "<result_schema>\n" + format.Document(schema.Describe()) + "\n</result_schema>\n" + constraintsWithSchema
}

// renderDone builds the terminal prompt for a completed procedure.
func renderDone(result any) string {
	text := statusLine(StatusDone) + "\nYou have successfully completed the workflow."
	if result == nil {
		return text
	}
	return text + "\n<workflow_result>\n" + format.Value(result) + "\n</workflow_result>"
}

// renderFailure builds the terminal prompt for an unhandled failure.
func renderFailure(err any) string {
	return statusLine(StatusError) + `
An error occurred with the MCP server:
<error>
` + format.Error(err) + `
</error>
The workflow cannot be completed, you MUST inform the user that current mcp tool execution has failed.`
}

// renderRetry builds the non-terminal prompt sent back when an input fails its schema.
func renderRetry(err error) string {
	return `Invalid "input" format, you should recall the current tool using the following format as "input":
` + format.Error(err)
}

// Prompt suspends the computation at a checkpoint describing task. When
// schema is non-nil the caller must resume with a value that satisfies it;
// that validated value is returned. When the caller reports a failure
// instead, Prompt returns a *ReportedError.
func (f *Flow) Prompt(task string, schema Schema) (any, error) {
	return f.suspend(Checkpoint{Prompt: renderTask(task, schema), Schema: schema})
}

// Step is Prompt without a result schema.
func Step(f *Flow, task string) error {
	_, err := f.Prompt(task, nil)
	return err
}

// Ask is Prompt with a schema inferred from T.
func Ask[T any](f *Flow, task string) (T, error) {
	return as[T](f.Prompt(task, MustFor[T]()))
}

func as[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected resume value %T, want %T", v, zero)
	}
	return out, nil
}
