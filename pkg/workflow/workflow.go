package workflow

import (
	"fmt"
	"reflect"
)

// Workflow is a named procedure wrapped with its two terminal renderings.
type Workflow struct {
	name string
	proc Procedure
}

// New creates a workflow definition.
func New(name string, proc Procedure) *Workflow {
	return &Workflow{name: name, proc: proc}
}

// Name returns the workflow name.
func (w *Workflow) Name() string { return w.name }

// Start creates a new, not yet started run of the workflow.
func (w *Workflow) Start() *Run {
	return newRun(w)
}

// execute runs the procedure to completion on the run's coroutine and renders
// the terminal outcome. Failures the procedure does not handle, panics
// included, become the error rendering.
func (w *Workflow) execute(f *Flow) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = failed(fmt.Errorf("panic in workflow %q: %v", w.name, p))
		}
	}()

	if w.proc == nil {
		return failed(ErrNilProcedure)
	}
	result, err := w.proc(f)
	if err != nil {
		return failed(err)
	}
	if isNil(result) {
		result = nil
	}
	return Outcome{Checkpoint: Checkpoint{Prompt: renderDone(result)}, Status: StatusDone}
}

func failed(err error) Outcome {
	return Outcome{Checkpoint: Checkpoint{Prompt: renderFailure(err)}, Status: StatusError}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
