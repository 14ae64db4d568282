package workflow

import "errors"

var (
	// ErrStopped is returned by Prompt when its run was abandoned while suspended.
	ErrStopped = errors.New("workflow run stopped")
	// ErrSpent is reported when a finished run is advanced again.
	ErrSpent = errors.New("workflow run already finished")
	// ErrCancelled is reported to a caller whose session was cancelled while
	// its invocation was running.
	ErrCancelled = errors.New("workflow session cancelled")
	// ErrNilProcedure is reported when a workflow has no procedure.
	ErrNilProcedure = errors.New("workflow has no procedure")
)
