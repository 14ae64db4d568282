package examples

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

type driver struct {
	t *testing.T
	h *workflow.Handler
}

func newDriver(t *testing.T, wf *workflow.Workflow) *driver {
	h := workflow.NewHandler(wf, workflow.WithProgress(false))
	t.Cleanup(h.Store().Close)
	return &driver{t: t, h: h}
}

func (d *driver) call(args workflow.Args) string {
	d.t.Helper()
	return d.h.Invoke(context.Background(), "test", args)
}

func (d *driver) input(v any) string {
	d.t.Helper()
	return d.call(workflow.Args{Input: v})
}

func TestPlusNumber(t *testing.T) {
	d := newDriver(t, PlusNumber())

	text := d.call(workflow.Args{})
	assert.Contains(t, text, "MUST call **AskUserQuestion** tool to achieve `please input a number`")
	assert.Contains(t, text, `"type":"number"`)

	d.input(2)
	text = d.input(3.5)
	assert.Contains(t, text, "<workflow_status>done</workflow_status>")
	assert.Contains(t, text, "<workflow_result>\n5.5\n</workflow_result>")
}

func TestSumNumber(t *testing.T) {
	d := newDriver(t, SumNumber())

	d.call(workflow.Args{})
	text := d.input(3)
	assert.Contains(t, text, "calculate 0 + 1")

	text = d.input(1)
	assert.Contains(t, text, "calculate 1 + 2")
	text = d.input(3)
	assert.Contains(t, text, "calculate 3 + 3")
	text = d.input(6)
	assert.Contains(t, text, "<workflow_result>\n6\n</workflow_result>")
}

func TestSumNumber_Zero(t *testing.T) {
	d := newDriver(t, SumNumber())

	d.call(workflow.Args{})
	text := d.input(0)
	assert.Contains(t, text, "<workflow_result>\n0\n</workflow_result>")
}

func TestFeatureFlag_NoCommit(t *testing.T) {
	d := newDriver(t, FeatureFlag())

	text := d.call(workflow.Args{})
	assert.Contains(t, text, "get commit id from user input")

	text = d.input(nil)
	assert.Contains(t, text, "<workflow_status>error</workflow_status>")
	assert.Contains(t, text, ErrCommitRequired.Error())
}

func TestFeatureFlag_NotConfirmed(t *testing.T) {
	d := newDriver(t, FeatureFlag())

	d.call(workflow.Args{})
	text := d.input("abc123")
	assert.Contains(t, text, "create an appropriate key by commit abc123")

	text = d.input("isEnableFeatureA")
	assert.Contains(t, text, "Please stage all code first.")

	text = d.input(map[string]any{"isConfirm": false})
	assert.Contains(t, text, "<workflow_status>done</workflow_status>")
	assert.NotContains(t, text, "<workflow_result>")
}

func TestFeatureFlag_Files(t *testing.T) {
	d := newDriver(t, FeatureFlag())

	d.call(workflow.Args{})
	d.input("abc123")
	d.input("isEnableFeatureA")

	text := d.input(`{"isConfirm":true}`)
	assert.Contains(t, text, "MUST call **Bash** tool to achieve `git list all changed ts/tsx/js/jsx file path in commit abc123`")

	text = d.input([]any{"a.ts", "b.tsx"})
	assert.Contains(t, text, "MUST call **Bash** tool with props")
	assert.Contains(t, text, "git diff abc123^ abc123 -- a.ts")
	assert.NotContains(t, text, "<result_schema>")

	text = d.call(workflow.Args{})
	assert.Contains(t, text, "use isEnableFeatureA to control the diff")
	assert.Contains(t, text, "import { isEnableFeatureA } from 'feature-switch';")

	text = d.call(workflow.Args{})
	assert.Contains(t, text, "git diff abc123^ abc123 -- b.tsx")
	d.call(workflow.Args{})

	text = d.call(workflow.Args{})
	assert.Contains(t, text, "<workflow_status>done</workflow_status>")
	assert.Equal(t, 0, d.h.Store().Len())
}

func TestRegister(t *testing.T) {
	reg := mcpserver.NewRegistry()
	require.NoError(t, Register(reg))
	assert.Equal(t, []string{"featureflag", "plus-number", "sum-number"}, reg.Names())

	e, ok := reg.Get("sum-number")
	require.True(t, ok)
	assert.Equal(t, "sum number", e.Options.Title)

	assert.Error(t, Register(reg), "registering twice collides")
}
