package event

import (
	"time"

	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// EventType represents the type of event.
type EventType string

const (
	WorkflowStarted    EventType = EventType(workflow.TransitionStarted)
	WorkflowCheckpoint EventType = EventType(workflow.TransitionCheckpoint)
	WorkflowRejected   EventType = EventType(workflow.TransitionRejected)
	WorkflowCompleted  EventType = EventType(workflow.TransitionCompleted)
	WorkflowFailed     EventType = EventType(workflow.TransitionFailed)
	WorkflowFault      EventType = EventType(workflow.TransitionFault)
	// WorkflowCancelled is published when an operator removes a session.
	WorkflowCancelled EventType = "workflow.cancelled"
)

// Event represents an event to be published.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// CancelledData is the data for workflow.cancelled events.
type CancelledData struct {
	Workflow  string    `json:"workflow"`
	SessionID string    `json:"sessionID"`
	RunID     string    `json:"runID,omitempty"`
	Time      time.Time `json:"time"`
}

// FromTransition wraps a session transition as an event.
func FromTransition(t workflow.Transition) Event {
	return Event{Type: EventType(t.Kind), Data: t}
}

// Observer returns a transition observer that publishes to b. Subscribers
// see the transitions of a session in the order they happened.
func Observer(b *Bus) func(workflow.Transition) {
	return func(t workflow.Transition) {
		b.PublishSync(FromTransition(t))
	}
}
