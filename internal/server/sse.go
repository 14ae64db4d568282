package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/opencode-ai/workflow-mcp/internal/event"
)

// SDKEvent is the wire form of a streamed event: {"type": ..., "properties": ...}.
type SDKEvent struct {
	Type       event.EventType `json:"type"`
	Properties any             `json:"properties"`
}

const (
	// SSEHeartbeatInterval is the interval for SSE heartbeats.
	SSEHeartbeatInterval = 30 * time.Second
)

// sseWriter wraps http.ResponseWriter for SSE.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
}

// newSSEWriter creates a new SSE writer.
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	rc := http.NewResponseController(w)

	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	return &sseWriter{w: w, flusher: flusher, rc: rc}, nil
}

// writeEvent writes one SSE event and flushes it.
func (s *sseWriter) writeEvent(eventType string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", eventType, jsonData)
	if err != nil {
		return err
	}

	// ResponseController reaches through middleware wrappers.
	if flushErr := s.rc.Flush(); flushErr != nil {
		s.flusher.Flush()
	}

	return nil
}

// writeHeartbeat writes an SSE heartbeat comment.
func (s *sseWriter) writeHeartbeat() {
	fmt.Fprintf(s.w, ": heartbeat\n\n")
	s.flusher.Flush()
}

// matches reports whether e passes the workflow and session filters.
// Streamed data is decoded JSON, so fields are read from a map.
func matches(e event.Event, workflow, sessionID string) bool {
	if workflow == "" && sessionID == "" {
		return true
	}
	data, ok := e.Data.(map[string]any)
	if !ok {
		return false
	}
	if workflow != "" && data["workflow"] != workflow {
		return false
	}
	if sessionID != "" && data["sessionID"] != sessionID {
		return false
	}
	return true
}

// allEvents streams workflow events as SSE. The optional "workflow" and
// "sessionID" query parameters narrow the stream.
func (s *Server) allEvents(w http.ResponseWriter, r *http.Request) {
	workflowFilter := r.URL.Query().Get("workflow")
	sessionFilter := r.URL.Query().Get("sessionID")

	events, err := s.bus.Stream(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternalError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	sse.flusher.Flush()

	connected := SDKEvent{Type: "server.connected", Properties: map[string]any{}}
	if err := sse.writeEvent("message", connected); err != nil {
		return
	}

	ticker := time.NewTicker(s.config.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if !matches(e, workflowFilter, sessionFilter) {
				continue
			}
			if err := sse.writeEvent("message", SDKEvent{Type: e.Type, Properties: e.Data}); err != nil {
				s.logger.Debug().Err(err).Msg("event stream closed")
				return
			}
		case <-ticker.C:
			sse.writeHeartbeat()
		}
	}
}
