/*
Package workflow runs multi-step interactive procedures behind a single
stateless tool endpoint.

A workflow is an ordinary Go function that talks to the calling agent through
checkpoints. Each checkpoint suspends the procedure and hands a prompt back to
the agent; the next invocation of the tool resumes it where it paused.

# Writing a procedure

	plus := workflow.New("plus-number", func(f *workflow.Flow) (any, error) {
		a, err := workflow.Ask[float64](f, "Ask the user for the first number")
		if err != nil {
			return nil, err
		}
		b, err := workflow.Ask[float64](f, "Ask the user for the second number")
		if err != nil {
			return nil, err
		}
		return a + b, nil
	})

Flow.Prompt is the only suspension point. Ask infers the result schema from a
Go type, Step asks for a task without a result, and the Tools helpers ask the
agent to call one of its own tools.

# Resuming

A Run is one execution of a workflow. The procedure runs on a coroutine
(iter.Pull) and only executes while Run.Resume or Run.Fail is on the stack, so
a checkpoint is always produced and consumed in program order. Resume hands a
value back to the pending Prompt; Fail makes Prompt return a *ReportedError,
which the procedure may handle or return.

# Sessions

Handler binds a Workflow to a Store keyed by session id:

  - the first invocation for an id starts a new run
  - a non-empty "error" argument is raised at the current checkpoint
  - otherwise "input" must pass the pending schema, with one retry that parses
    textual input as JSON
  - a rejected input returns a retry prompt and leaves the session untouched
  - a terminal outcome removes the session

Sessions live in memory only. Resumes of the same session id must not overlap.
*/
package workflow
