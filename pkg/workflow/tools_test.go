package workflow

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTool_Goal(t *testing.T) {
	var got any
	wf := New("goal", Void(func(f *Flow) error {
		v, err := Tools.Bash.Goal(f, "list the files in the repo", MustFor[[]string]())
		got = v
		return err
	}))

	run := wf.Start()
	out := run.Resume(context.Background(), nil)
	require.Equal(t, StatusProcessing, out.Status)
	assert.Contains(t, out.Prompt, "<task>\nMUST call **Bash** tool to achieve `list the files in the repo`\n</task>")
	assert.Contains(t, out.Prompt, "<result_schema>")
	require.NotNil(t, out.Schema)

	run.Resume(context.Background(), []string{"go.mod"})
	assert.Equal(t, []string{"go.mod"}, got)
}

func TestTool_Props(t *testing.T) {
	wf := New("props", Void(func(f *Flow) error {
		_, err := Tools.FileRead.Props(f, FileReadInput{FilePath: "/tmp/a.txt"}, nil)
		return err
	}))

	out := wf.Start().Resume(context.Background(), nil)
	require.Equal(t, StatusProcessing, out.Status)
	assert.Contains(t, out.Prompt, "MUST call **FileRead** tool with props `{\"file_path\":\"/tmp/a.txt\"}`")
	assert.NotContains(t, out.Prompt, "<result_schema>")
	assert.Nil(t, out.Schema)
}

func TestTool_PropsMcp(t *testing.T) {
	wf := New("mcp", Void(func(f *Flow) error {
		_, err := Tools.Mcp.Props(f, McpInput{"server": "github"}, nil)
		return err
	}))

	out := wf.Start().Resume(context.Background(), nil)
	assert.Contains(t, out.Prompt, "MUST call **Mcp** tool with props `{\"server\":\"github\"}`")
}

func TestAskTool(t *testing.T) {
	type match struct {
		Files []string `json:"files"`
	}

	var got match
	wf := New("ask-tool", Void(func(f *Flow) error {
		var err error
		got, err = AskTool[match](f, Tools.Glob, "find every go file")
		return err
	}))

	run := wf.Start()
	out := run.Resume(context.Background(), nil)
	require.NotNil(t, out.Schema)

	v, err := out.Schema.Validate(map[string]any{"files": []any{"main.go"}})
	require.NoError(t, err)

	out = run.Resume(context.Background(), v)
	assert.Equal(t, StatusDone, out.Status)
	assert.Equal(t, match{Files: []string{"main.go"}}, got)
}

func TestCatalog(t *testing.T) {
	kinds := Catalog()
	require.Len(t, kinds, 18)

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name
		assert.NotEmpty(t, k.Description, k.Name)
		if k.Name != McpKind.Name {
			assert.NotEmpty(t, k.Params, k.Name)
		}
	}
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "AskUserQuestion")
	assert.Contains(t, names, "WebSearch")
}

func TestToolKind_Info(t *testing.T) {
	info := Tools.Grep.Kind().Info()

	assert.Equal(t, "Grep", info.Name)
	assert.Equal(t, GrepKind.Description, info.Desc)
	assert.NotNil(t, info.ParamsOneOf)
}
