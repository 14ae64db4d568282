package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
)

func TestRenderTask_WithoutSchema(t *testing.T) {
	text := renderTask("Say hello", nil)

	assert.True(t, strings.HasPrefix(text, "<workflow_status>processing</workflow_status>\n<task>\nSay hello\n</task>\n"))
	assert.NotContains(t, text, "<result_schema>")
	assert.Contains(t, text, "Call current MCP tool with no props.")
	assert.Contains(t, text, "NEVER skip task.")
	assert.Contains(t, text, `NEVER end responses while workflow status is "processing"`)
}

func TestRenderTask_WithSchema(t *testing.T) {
	s := MustFromDocument(&jsonschema.Schema{Type: "number"})
	text := renderTask("Ask for a number", s)

	assert.Contains(t, text, "<task>\nAsk for a number\n</task>")
	assert.Contains(t, text, "<result_schema>\n{\"type\":\"number\"}\n</result_schema>")
	assert.Contains(t, text, `Call current MCP tool with result as "input".`)
	assert.Contains(t, text, `ONLY if task failed OR cannot get task result`)
}

func TestRenderDone(t *testing.T) {
	assert.Equal(t,
		"<workflow_status>done</workflow_status>\nYou have successfully completed the workflow.",
		renderDone(nil))

	assert.Equal(t,
		"<workflow_status>done</workflow_status>\nYou have successfully completed the workflow.\n<workflow_result>\n5\n</workflow_result>",
		renderDone(5.0))

	assert.Contains(t, renderDone(map[string]any{"ok": true}), `{"ok":true}`)
}

func TestRenderFailure(t *testing.T) {
	text := renderFailure(errors.New("boom"))

	assert.True(t, strings.HasPrefix(text, "<workflow_status>error</workflow_status>\n"))
	assert.Contains(t, text, "<error>\nboom\n</error>")
	assert.Contains(t, text, "you MUST inform the user that current mcp tool execution has failed.")
}

func TestRenderRetry(t *testing.T) {
	text := renderRetry(errors.New("want number"))

	assert.Equal(t, "Invalid \"input\" format, you should recall the current tool using the following format as \"input\":\nwant number", text)
	assert.NotContains(t, text, "<workflow_status>")
}

func TestAs(t *testing.T) {
	v, err := as[int](3, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = as[int](nil, nil)
	assert.NoError(t, err)
	assert.Zero(t, v)

	_, err = as[int]("three", nil)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = as[int](3, boom)
	assert.ErrorIs(t, err, boom)
}
