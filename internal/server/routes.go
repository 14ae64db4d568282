package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all routes below the base path.
func (s *Server) setupRoutes() {
	if s.config.BasePath == "" {
		s.routes(s.router)
		return
	}
	s.router.Route(s.config.BasePath, s.routes)
}

func (s *Server) routes(r chi.Router) {
	// MCP transports
	r.Handle("/mcp", s.streamable)
	r.Handle("/sse", s.sse.SSEHandler())
	r.Handle("/message", s.sse.MessageHandler())

	r.Get("/health", s.health)

	// Operator API
	r.Route("/workflow", func(r chi.Router) {
		r.Get("/", s.listWorkflows)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.getWorkflow)
			r.Get("/session", s.listSessions)
			r.Get("/session/{sessionID}", s.getSession)
			r.Delete("/session/{sessionID}", s.cancelSession)
		})
	})

	// Event streaming (SSE)
	if s.bus != nil {
		r.Get("/event", s.allEvents)
	}
}
