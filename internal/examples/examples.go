// Package examples holds the reference workflows shipped with the
// workflow-mcp binary. They double as fixtures for the end-to-end tests.
package examples

import (
	"errors"
	"fmt"

	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// PlusNumber asks the user for two numbers and returns their sum.
func PlusNumber() *workflow.Workflow {
	return workflow.New("plus-number", func(f *workflow.Flow) (any, error) {
		a, err := workflow.AskTool[float64](f, workflow.Tools.AskUserQuestion, "please input a number")
		if err != nil {
			return nil, err
		}
		b, err := workflow.AskTool[float64](f, workflow.Tools.AskUserQuestion, "please input a number")
		if err != nil {
			return nil, err
		}
		return a + b, nil
	})
}

// SumNumber asks the user for a number n and has the agent add up 1..n,
// one addition per checkpoint.
func SumNumber() *workflow.Workflow {
	return workflow.New("sum-number", func(f *workflow.Flow) (any, error) {
		count, err := workflow.AskTool[float64](f, workflow.Tools.AskUserQuestion, "please input a number")
		if err != nil {
			return nil, err
		}

		sum := 0.0
		for i := 1; float64(i) <= count; i++ {
			sum, err = workflow.Ask[float64](f, fmt.Sprintf("calculate %v + %d", sum, i))
			if err != nil {
				return nil, err
			}
		}
		return sum, nil
	})
}

type confirmation struct {
	IsConfirm bool `json:"isConfirm"`
}

// ErrCommitRequired is returned by FeatureFlag when the user gave no commit.
var ErrCommitRequired = errors.New("commit id is required")

// FeatureFlag guards every file changed by a commit behind a feature switch.
func FeatureFlag() *workflow.Workflow {
	return workflow.New("featureflag", workflow.Void(func(f *workflow.Flow) error {
		commit, err := workflow.Ask[*string](f, "get commit id from user input, if not exist return null")
		if err != nil {
			return err
		}
		if commit == nil || *commit == "" {
			return ErrCommitRequired
		}
		sourceCommit := *commit

		featureKey, err := workflow.Ask[string](f, fmt.Sprintf("create an appropriate key by commit %s, like isEnableFeatureA", sourceCommit))
		if err != nil {
			return err
		}

		confirm, err := workflow.AskTool[confirmation](f, workflow.Tools.AskUserQuestion,
			"Executing subsequent commands may cause changes to the workspace code. Please stage all code first.")
		if err != nil {
			return err
		}
		if !confirm.IsConfirm {
			return nil
		}

		files, err := workflow.AskTool[[]string](f, workflow.Tools.Bash,
			fmt.Sprintf("git list all changed ts/tsx/js/jsx file path in commit %s", sourceCommit))
		if err != nil {
			return err
		}

		for _, file := range files {
			cmd := workflow.BashInput{Command: fmt.Sprintf("git diff %s^ %s -- %s", sourceCommit, sourceCommit, file)}
			if _, err := workflow.Tools.Bash.Props(f, cmd, nil); err != nil {
				return err
			}
			if err := workflow.Step(f, featureUsage(featureKey)); err != nil {
				return err
			}
		}
		return nil
	}))
}

func featureUsage(key string) string {
	return fmt.Sprintf("use %[1]s to control the diff listed in the previous step.\n"+
		"usage:\n"+
		"```js\n"+
		"// @ts-ignore\n"+
		"import { %[1]s } from 'feature-switch';\n\n"+
		"if (%[1]s) {\n  newCode;\n} else {\n  oldCode;\n}\n"+
		"const value = %[1]s ? newValue : oldValue;\n"+
		"if (%[1]s && newLogic) {\n  newCode;\n} else {\n  oldCode;\n}\n"+
		"const value = %[1]s && newLogic ? newValue : oldValue;\n"+
		"```\n", key)
}

// Register adds every reference workflow to reg.
func Register(reg *mcpserver.Registry) error {
	entries := []struct {
		wf   *workflow.Workflow
		opts mcpserver.Options
	}{
		{PlusNumber(), mcpserver.Options{Title: "plus number", Description: "ask user input number, and plus."}},
		{SumNumber(), mcpserver.Options{Title: "sum number", Description: "ask user input number, and sum from 1 to input number."}},
		{FeatureFlag(), mcpserver.Options{Title: "featureflag", Description: "use featureflag to control commit changes."}},
	}
	for _, e := range entries {
		if err := reg.Add(e.wf, e.opts); err != nil {
			return err
		}
	}
	return nil
}
