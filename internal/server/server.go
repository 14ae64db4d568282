package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mcpgo "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/internal/event"
	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// BasePath prefixes every route, e.g. "/workflow-mcp".
	BasePath     string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Heartbeat is the keep-alive interval of streaming responses.
	Heartbeat time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:8080",
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No write timeout for SSE
		Heartbeat:    SSEHeartbeatInterval,
	}
}

// ConfigFrom derives the server configuration from the application config.
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Addr != "" {
		c.Addr = cfg.Addr
	}
	c.BasePath = normalizeBasePath(cfg.BasePath)
	c.EnableCORS = cfg.CORSEnabled()
	return c
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Server is the HTTP host of a workflow MCP server. It serves MCP over
// streamable HTTP and SSE next to a small operator API.
type Server struct {
	config     *Config
	router     *chi.Mux
	mu         sync.Mutex
	httpSrv    *http.Server
	mcp        *mcpserver.Server
	bus        *event.Bus
	logger     zerolog.Logger
	streamable *mcpgo.StreamableHTTPServer
	sse        *mcpgo.SSEServer

	// streams is the base context of every request. Shutdown cancels it
	// to end open event streams.
	streams context.Context
	stop    context.CancelFunc
}

// New creates a new Server instance. bus may be nil, in which case the
// event stream is not served.
func New(cfg *Config, srv *mcpserver.Server, bus *event.Bus, logger zerolog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		mcp:    srv,
		bus:    bus,
		logger: logger,
	}
	s.streams, s.stop = context.WithCancel(context.Background())

	s.streamable = mcpgo.NewStreamableHTTPServer(srv.MCP(),
		mcpgo.WithEndpointPath(cfg.BasePath+"/mcp"),
		mcpgo.WithHeartbeatInterval(cfg.Heartbeat),
		mcpgo.WithLogger(mcpLogger{logger.With().Str("component", "streamable").Logger()}),
	)
	s.sse = mcpgo.NewSSEServer(srv.MCP(),
		mcpgo.WithStaticBasePath(cfg.BasePath),
		mcpgo.WithKeepAlive(true),
		mcpgo.WithKeepAliveInterval(cfg.Heartbeat),
	)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Mcp-Session-Id", "Mcp-Protocol-Version", "Last-Event-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Mcp-Session-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// requestLogger logs each request once it has been served.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("requestID", middleware.GetReqID(r.Context())).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve serves on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	httpSrv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return s.streams },
	}
	s.mu.Lock()
	s.httpSrv = httpSrv
	s.mu.Unlock()
	s.logger.Info().Str("addr", l.Addr().String()).Str("basePath", s.config.BasePath).Msg("http server listening")

	err := httpSrv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server and the MCP transports.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()

	var errs []error
	if err := s.sse.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.streamable.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.mu.Lock()
	httpSrv := s.httpSrv
	s.mu.Unlock()
	if httpSrv != nil {
		if err := httpSrv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// mcpLogger routes mcp-go transport logs to zerolog.
type mcpLogger struct {
	logger zerolog.Logger
}

func (l mcpLogger) Infof(format string, v ...any) {
	l.logger.Debug().Msgf(format, v...)
}

func (l mcpLogger) Errorf(format string, v ...any) {
	l.logger.Error().Msgf(format, v...)
}
