package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/workflow-mcp/internal/format"
)

// DefaultSessionID is used when the transport supplies no session id.
const DefaultSessionID = "stdio"

// Args are the arguments of one invocation of a workflow tool.
type Args struct {
	Input any    `json:"input,omitempty" jsonschema:"If you don't know what to send, don't send anything."`
	Error string `json:"error,omitempty" jsonschema:"If you don't know what to send, don't send anything."`
}

// TransitionKind names a session state transition.
type TransitionKind string

const (
	TransitionStarted    TransitionKind = "workflow.started"
	TransitionCheckpoint TransitionKind = "workflow.checkpoint"
	TransitionRejected   TransitionKind = "workflow.rejected"
	TransitionCompleted  TransitionKind = "workflow.completed"
	TransitionFailed     TransitionKind = "workflow.failed"
	TransitionFault      TransitionKind = "workflow.fault"
)

// Transition describes one state change of a session.
type Transition struct {
	Kind       TransitionKind `json:"kind"`
	Workflow   string         `json:"workflow"`
	SessionID  string         `json:"sessionID"`
	RunID      string         `json:"runID"`
	Checkpoint int            `json:"checkpoint,omitempty"`
	Error      string         `json:"error,omitempty"`
	Time       time.Time      `json:"time"`
}

// Handler drives one workflow behind a single tool endpoint. Each Invoke
// looks up or creates the session, gates the resume on the pending schema,
// advances the run and renders the next prompt.
type Handler struct {
	workflow         *Workflow
	store            *Store
	logger           zerolog.Logger
	observer         func(Transition)
	defaultSessionID string
	progress         bool
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithStore sets the session store.
func WithStore(s *Store) HandlerOption {
	return func(h *Handler) { h.store = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = l }
}

// WithObserver registers a function called synchronously on every transition.
func WithObserver(fn func(Transition)) HandlerOption {
	return func(h *Handler) { h.observer = fn }
}

// WithDefaultSessionID sets the session id used when the transport supplies none.
func WithDefaultSessionID(id string) HandlerOption {
	return func(h *Handler) {
		if id != "" {
			h.defaultSessionID = id
		}
	}
}

// WithProgress enables or disables the progress line on processing prompts.
func WithProgress(enabled bool) HandlerOption {
	return func(h *Handler) { h.progress = enabled }
}

// NewHandler creates a handler for wf.
func NewHandler(wf *Workflow, opts ...HandlerOption) *Handler {
	h := &Handler{
		workflow:         wf,
		logger:           zerolog.Nop(),
		defaultSessionID: DefaultSessionID,
		progress:         true,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		h.store = NewStore()
	}
	return h
}

// Workflow returns the workflow this handler drives.
func (h *Handler) Workflow() *Workflow { return h.workflow }

// Store returns the session store.
func (h *Handler) Store() *Store { return h.store }

// Invoke handles one invocation for sessionID and returns the prompt text.
func (h *Handler) Invoke(ctx context.Context, sessionID string, args Args) (text string) {
	if sessionID == "" {
		sessionID = h.defaultSessionID
	}
	log := h.logger.With().
		Str("workflow", h.workflow.Name()).
		Str("session", sessionID).
		Logger()

	sess, ok := h.store.Get(sessionID)
	created := !ok
	if created {
		sess = &Session{ID: sessionID, Run: h.workflow.Start()}
		h.store.Put(sess)
		log.Debug().Str("run", sess.Run.ID()).Msg("workflow session started")
		h.emit(TransitionStarted, sess, "")
	}

	// Faults in the plumbing leave the session as it was so the caller can retry.
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%v", p)
			log.Error().Err(err).Str("run", sess.Run.ID()).Msg("fault while resuming workflow")
			h.emit(TransitionFault, sess, err.Error())
			text = format.Error(err)
		}
	}()

	if args.Error != "" {
		if created {
			log.Debug().Str("error", args.Error).Msg("ignoring failure reported before the first checkpoint")
		} else {
			log.Error().Str("error", args.Error).Str("run", sess.Run.ID()).Msg("caller reported failure")
			return h.settle(log, sess, sess.Run.Fail(ctx, &ReportedError{Message: args.Error}))
		}
	}

	if sess.PendingSchema == nil {
		return h.settle(log, sess, sess.Run.Resume(ctx, nil))
	}

	value, err := validate(sess.PendingSchema, args.Input)
	if err != nil {
		log.Warn().Err(err).Str("run", sess.Run.ID()).Msg("rejected input")
		h.emit(TransitionRejected, sess, err.Error())
		return renderRetry(err)
	}
	return h.settle(log, sess, sess.Run.Resume(ctx, value))
}

// validate checks input against s. Textual input that fails gets exactly one
// more attempt after being parsed as JSON.
func validate(s Schema, input any) (any, error) {
	value, err := s.Validate(input)
	if err == nil {
		return value, nil
	}

	text, ok := input.(string)
	if !ok {
		return nil, err
	}
	var parsed any
	if jsonErr := json.Unmarshal([]byte(text), &parsed); jsonErr != nil {
		return nil, err
	}
	return s.Validate(parsed)
}

// settle records the outcome of a resume: a new checkpoint keeps the session
// with its new pending schema, a terminal outcome removes it. A session that
// was cancelled while the run advanced is not brought back.
func (h *Handler) settle(log zerolog.Logger, sess *Session, out Outcome) string {
	if out.Terminal() {
		h.store.remove(sess)
		kind := TransitionCompleted
		if out.Status == StatusError {
			kind = TransitionFailed
		}
		log.Debug().Str("run", sess.Run.ID()).Str("status", string(out.Status)).Msg("workflow session finished")
		h.emit(kind, sess, "")
		return out.Prompt
	}

	n, ok := h.store.checkpoint(sess, out.Schema)
	if !ok {
		sess.Run.Stop()
		log.Info().Str("run", sess.Run.ID()).Msg("workflow session cancelled during invocation")
		return renderFailure(ErrCancelled)
	}
	log.Debug().
		Str("run", sess.Run.ID()).
		Int("checkpoint", n).
		Bool("schema", out.Schema != nil).
		Msg("workflow suspended")
	h.emit(TransitionCheckpoint, sess, "")

	if !h.progress {
		return out.Prompt
	}
	return format.WithProgress(out.Prompt, format.Progress(n))
}

func (h *Handler) emit(kind TransitionKind, sess *Session, errText string) {
	if h.observer == nil {
		return
	}
	h.observer(Transition{
		Kind:       kind,
		Workflow:   h.workflow.Name(),
		SessionID:  sess.ID,
		RunID:      sess.Run.ID(),
		Checkpoint: sess.Checkpoints,
		Error:      errText,
		Time:       time.Now(),
	})
}
