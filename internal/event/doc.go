/*
Package event publishes workflow session transitions.

Every Handler transition (see workflow.Transition) becomes an Event whose
type is the transition kind:

  - workflow.started: a session was created for a new id
  - workflow.checkpoint: the run suspended at a new checkpoint
  - workflow.rejected: an input failed the pending schema
  - workflow.completed, workflow.failed: the run reached a terminal outcome
  - workflow.fault: the handler recovered from a fault and kept the session
  - workflow.cancelled: an operator removed a session

# Delivery

Direct subscribers (Subscribe, SubscribeAll) receive the typed Event, either
asynchronously (Publish) or before PublishSync returns. Each event is also
mirrored as JSON onto a watermill gochannel topic; Stream reads that topic and
feeds the HTTP event stream.

	bus := event.NewBus(logging.Logger)
	defer bus.Close()

	unsub := bus.Subscribe(event.WorkflowFailed, func(e event.Event) {
		t := e.Data.(workflow.Transition)
		log.Printf("%s failed in session %s", t.Workflow, t.SessionID)
	})
	defer unsub()
*/
package event
