package workflow

import (
	"context"
	"iter"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Procedure is the body of a workflow. It runs synchronously between
// checkpoints and suspends only inside Flow.Prompt.
type Procedure func(f *Flow) (any, error)

// Void adapts a procedure that produces no result.
func Void(fn func(f *Flow) error) Procedure {
	return func(f *Flow) (any, error) {
		return nil, fn(f)
	}
}

type resumeSignal struct {
	value any
	err   error
}

// Flow is the handle a procedure uses to reach its suspension points.
// It belongs to a single Run and must not be used from other goroutines.
type Flow struct {
	run     *Run
	yield   func(Checkpoint) bool
	ctx     context.Context
	signal  resumeSignal
	stopped bool
}

// Context returns the context of the invocation currently driving the run.
func (f *Flow) Context() context.Context {
	if f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}

// RunID returns the identifier of the run this flow belongs to.
func (f *Flow) RunID() string {
	return f.run.id
}

func (f *Flow) suspend(cp Checkpoint) (any, error) {
	if f.stopped || f.yield == nil {
		return nil, ErrStopped
	}
	if !f.yield(cp) {
		f.stopped = true
		return nil, ErrStopped
	}
	sig := f.signal
	f.signal = resumeSignal{}
	return sig.value, sig.err
}

// Outcome is the result of advancing a run: either a new checkpoint
// (StatusProcessing) or one of the two terminal renderings.
type Outcome struct {
	Checkpoint
	Status Status
}

// Terminal reports whether the run is spent.
func (o Outcome) Terminal() bool {
	return o.Status != StatusProcessing
}

// Run is one suspended execution of a workflow. The procedure runs on a
// coroutine and only ever executes while Resume or Fail is on the stack,
// so it never runs concurrently with the caller driving it. Stop waits for
// an advance in progress to reach its next checkpoint.
type Run struct {
	mu       sync.Mutex
	id       string
	workflow *Workflow
	flow     *Flow
	next     func() (Checkpoint, bool)
	stop     func()
	started  bool
	done     bool
	final    Outcome
}

func newRun(w *Workflow) *Run {
	r := &Run{
		id:       ulid.Make().String(),
		workflow: w,
	}
	r.flow = &Flow{run: r}
	seq := func(yield func(Checkpoint) bool) {
		r.flow.yield = yield
		r.final = w.execute(r.flow)
	}
	r.next, r.stop = iter.Pull(iter.Seq[Checkpoint](seq))
	return r
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Workflow returns the definition this run executes.
func (r *Run) Workflow() *Workflow { return r.workflow }

// Started reports whether the procedure has begun executing.
func (r *Run) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Done reports whether the run reached a terminal outcome or was stopped.
func (r *Run) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Resume advances the run with value. The first Resume starts the procedure
// and its value is discarded.
func (r *Run) Resume(ctx context.Context, value any) Outcome {
	return r.advance(ctx, resumeSignal{value: value})
}

// Fail raises err at the current suspension point. A run that has not
// started has no suspension point yet, so it is simply started.
func (r *Run) Fail(ctx context.Context, err error) Outcome {
	return r.advance(ctx, resumeSignal{err: err})
}

// Stop abandons the run. A procedure suspended in Prompt observes ErrStopped.
func (r *Run) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.done = true
	r.stop()
}

func (r *Run) advance(ctx context.Context, sig resumeSignal) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return Outcome{Checkpoint: Checkpoint{Prompt: renderFailure(ErrSpent)}, Status: StatusError}
	}
	if !r.started {
		sig.err = nil
	}
	r.started = true
	r.flow.ctx = ctx
	r.flow.signal = sig

	cp, ok := r.next()
	if !ok {
		r.done = true
		r.stop()
		return r.final
	}
	return Outcome{Checkpoint: cp, Status: StatusProcessing}
}
