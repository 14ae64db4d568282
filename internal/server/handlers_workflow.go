package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// WorkflowInfo describes an exposed workflow tool.
type WorkflowInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Sessions    int    `json:"sessions"`
}

// SessionInfo describes an active workflow session.
type SessionInfo struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runID"`
	Checkpoints int       `json:"checkpoints"`
	Schema      any       `json:"schema,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newSessionInfo(sess *workflow.Session) SessionInfo {
	info := SessionInfo{
		ID:          sess.ID,
		Checkpoints: sess.Checkpoints,
		CreatedAt:   sess.CreatedAt,
		UpdatedAt:   sess.UpdatedAt,
	}
	if sess.Run != nil {
		info.RunID = sess.Run.ID()
	}
	if sess.PendingSchema != nil {
		info.Schema = sess.PendingSchema.Describe()
	}
	return info
}

func (s *Server) workflowInfo(name string, h *workflow.Handler) WorkflowInfo {
	info := WorkflowInfo{Name: name, Sessions: h.Store().Len()}
	if tool := s.mcp.MCP().GetTool(name); tool != nil {
		info.Title = tool.Tool.Annotations.Title
		info.Description = tool.Tool.Description
	}
	return info
}

// health reports liveness and the number of exposed workflows.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"workflows": len(s.mcp.Workflows()),
	})
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	names := s.mcp.Workflows()
	list := make([]WorkflowInfo, 0, len(names))
	for _, name := range names {
		h, _ := s.mcp.Handler(name)
		list = append(list, s.workflowInfo(name, h))
	}
	writeJSON(w, http.StatusOK, list)
}

// lookup resolves the {name} URL parameter, writing a 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *workflow.Handler, bool) {
	name := chi.URLParam(r, "name")
	h, ok := s.mcp.Handler(name)
	if !ok {
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, "workflow not found", map[string]any{"workflow": name})
		return name, nil, false
	}
	return name, h, true
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	name, h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.workflowInfo(name, h))
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	_, h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sessions := h.Store().Sessions()
	list := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		list = append(list, newSessionInfo(sess))
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	name, h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "sessionID")
	sess, ok := h.Store().Snapshot(id)
	if !ok {
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, "session not found", map[string]any{"workflow": name, "session": id})
		return
	}
	writeJSON(w, http.StatusOK, newSessionInfo(&sess))
}

// cancelSession drops an active session and stops its run. The next call
// from that client starts the workflow over.
func (s *Server) cancelSession(w http.ResponseWriter, r *http.Request) {
	name, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "sessionID")
	if !s.mcp.Cancel(name, id) {
		writeErrorWithDetails(w, http.StatusNotFound, ErrCodeNotFound, "session not found", map[string]any{"workflow": name, "session": id})
		return
	}
	writeSuccess(w)
}
