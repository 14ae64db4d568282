package event

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	bus := NewBus(zerolog.Nop())
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

func waitFor(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for events")
	}
}

func TestBus_Subscribe(t *testing.T) {
	bus := newTestBus(t)

	var received Event
	var wg sync.WaitGroup
	wg.Add(1)
	unsub := bus.Subscribe(WorkflowStarted, func(e Event) {
		received = e
		wg.Done()
	})
	defer unsub()

	bus.Publish(Event{Type: WorkflowStarted, Data: "s1"})
	waitFor(t, &wg)

	assert.Equal(t, WorkflowStarted, received.Type)
	assert.Equal(t, "s1", received.Data)
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := newTestBus(t)

	var count int32
	var wg sync.WaitGroup
	wg.Add(3)
	unsub := bus.SubscribeAll(func(e Event) {
		atomic.AddInt32(&count, 1)
		wg.Done()
	})
	defer unsub()

	bus.Publish(Event{Type: WorkflowStarted})
	bus.Publish(Event{Type: WorkflowCheckpoint})
	bus.Publish(Event{Type: WorkflowCompleted})
	waitFor(t, &wg)

	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newTestBus(t)

	var count int32
	unsub := bus.Subscribe(WorkflowFailed, func(e Event) {
		atomic.AddInt32(&count, 1)
	})
	unsub()

	bus.PublishSync(Event{Type: WorkflowFailed})
	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
}

func TestBus_PublishSync(t *testing.T) {
	bus := newTestBus(t)

	var order []EventType
	bus.SubscribeAll(func(e Event) { order = append(order, e.Type) })

	bus.PublishSync(Event{Type: WorkflowStarted})
	bus.PublishSync(Event{Type: WorkflowCheckpoint})

	assert.Equal(t, []EventType{WorkflowStarted, WorkflowCheckpoint}, order)
}

func TestBus_Closed(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	called := false
	unsub := bus.SubscribeAll(func(e Event) { called = true })
	unsub()
	bus.PublishSync(Event{Type: WorkflowStarted})
	assert.False(t, called)

	_, err := bus.Stream(context.Background())
	assert.Error(t, err)
}

func TestBus_Stream(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := bus.Stream(ctx)
	require.NoError(t, err)

	bus.Publish(FromTransition(workflow.Transition{
		Kind:      workflow.TransitionCheckpoint,
		Workflow:  "plus-number",
		SessionID: "s1",
		RunID:     "run",
	}))

	select {
	case e := <-events:
		assert.Equal(t, WorkflowCheckpoint, e.Type)
		data, ok := e.Data.(map[string]any)
		require.True(t, ok, "stream data is decoded JSON")
		assert.Equal(t, "plus-number", data["workflow"])
		assert.Equal(t, "s1", data["sessionID"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for streamed event")
	}

	cancel()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(time.Second):
		t.Fatal("stream not closed after cancel")
	}
}

func TestObserver(t *testing.T) {
	bus := newTestBus(t)

	var wg sync.WaitGroup
	wg.Add(1)
	var got Event
	bus.Subscribe(WorkflowCompleted, func(e Event) {
		got = e
		wg.Done()
	})

	Observer(bus)(workflow.Transition{Kind: workflow.TransitionCompleted, SessionID: "s1"})
	waitFor(t, &wg)

	tr, ok := got.Data.(workflow.Transition)
	require.True(t, ok)
	assert.Equal(t, "s1", tr.SessionID)
}
