package mcpserver

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/internal/event"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// Server is an MCP server exposing the enabled workflows of a registry.
// Each workflow tool has its own handler and session store.
type Server struct {
	mcp      *server.MCPServer
	bus      *event.Bus
	logger   zerolog.Logger
	handlers map[string]*workflow.Handler
}

// NewServer registers every workflow of reg that cfg enables. bus may be nil.
func NewServer(cfg *config.Config, reg *Registry, bus *event.Bus, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		mcp: server.NewMCPServer(
			cfg.Name,
			cfg.Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		bus:      bus,
		logger:   logger,
		handlers: make(map[string]*workflow.Handler),
	}

	for _, entry := range reg.Entries() {
		name := entry.Name()
		if !cfg.WorkflowEnabled(name) {
			logger.Debug().Str("workflow", name).Msg("workflow disabled by config")
			continue
		}

		opts := entry.Options
		if override, ok := cfg.Workflow[name]; ok {
			if override.Title != "" {
				opts.Title = override.Title
			}
			if override.Description != "" {
				opts.Description = override.Description
			}
		}

		hopts := []workflow.HandlerOption{
			workflow.WithLogger(logger.With().Str("component", "workflow").Logger()),
			workflow.WithDefaultSessionID(cfg.DefaultSessionID),
			workflow.WithProgress(cfg.ProgressEnabled()),
		}
		if bus != nil {
			hopts = append(hopts, workflow.WithObserver(event.Observer(bus)))
		}

		h, err := Register(s.mcp, entry.Workflow, opts, hopts...)
		if err != nil {
			return nil, err
		}
		s.handlers[name] = h
		logger.Debug().Str("workflow", name).Msg("workflow tool registered")
	}

	return s, nil
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Workflows returns the names of the exposed workflows, sorted.
func (s *Server) Workflows() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns the handler of the workflow called name.
func (s *Server) Handler(name string) (*workflow.Handler, bool) {
	h, ok := s.handlers[name]
	return h, ok
}

// Cancel removes an active session of the workflow called name and stops
// its run. It reports whether a session was removed.
func (s *Server) Cancel(name, sessionID string) bool {
	h, ok := s.handlers[name]
	if !ok {
		return false
	}
	sess, ok := h.Store().Snapshot(sessionID)
	if !ok || !h.Store().Delete(sessionID) {
		return false
	}

	s.logger.Info().Str("workflow", name).Str("session", sessionID).Msg("workflow session cancelled")
	if s.bus != nil {
		s.bus.Publish(event.Event{
			Type: event.WorkflowCancelled,
			Data: event.CancelledData{
				Workflow:  name,
				SessionID: sessionID,
				RunID:     sess.Run.ID(),
				Time:      time.Now(),
			},
		})
	}
	return true
}

// ServeStdio serves MCP over in and out until ctx is done or in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger.With().Str("component", "stdio").Logger(), "", 0))
	return stdio.Listen(ctx, in, out)
}

// Close stops every suspended run.
func (s *Server) Close() {
	for _, h := range s.handlers {
		h.Store().Close()
	}
}
