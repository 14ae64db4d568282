// Package testutil starts a workflow-mcp HTTP server for the end-to-end
// suites and connects MCP clients to it.
package testutil

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/internal/event"
	"github.com/opencode-ai/workflow-mcp/internal/examples"
	"github.com/opencode-ai/workflow-mcp/internal/server"
	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
)

// TestServer wraps a running server instance for testing.
type TestServer struct {
	Server  *server.Server
	MCP     *mcpserver.Server
	Bus     *event.Bus
	Config  *config.Config
	BaseURL string
	done    chan error
}

// TestServerOption configures TestServer.
type TestServerOption func(*config.Config)

// WithConfig lets a suite adjust the configuration before start.
func WithConfig(fn func(*config.Config)) TestServerOption {
	return TestServerOption(fn)
}

// StartTestServer starts a server exposing the reference workflows on a
// free local port and waits until it answers /health.
func StartTestServer(opts ...TestServerOption) (*TestServer, error) {
	cfg := config.Default()
	cfg.Transport = config.TransportHTTP
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := mcpserver.NewRegistry()
	if err := examples.Register(reg); err != nil {
		return nil, err
	}

	bus := event.NewBus(zerolog.Nop())
	mcpSrv, err := mcpserver.NewServer(cfg, reg, bus, zerolog.Nop())
	if err != nil {
		bus.Close()
		return nil, err
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		mcpSrv.Close()
		bus.Close()
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srvCfg := server.ConfigFrom(cfg)
	srvCfg.Heartbeat = 2 * time.Second
	srv := server.New(srvCfg, mcpSrv, bus, zerolog.Nop())

	ts := &TestServer{
		Server:  srv,
		MCP:     mcpSrv,
		Bus:     bus,
		Config:  cfg,
		BaseURL: fmt.Sprintf("http://%s%s", l.Addr(), srvCfg.BasePath),
		done:    make(chan error, 1),
	}
	go func() {
		ts.done <- srv.Serve(l)
	}()

	if err := waitForServer(ts.BaseURL, 10*time.Second); err != nil {
		ts.Stop()
		return nil, fmt.Errorf("server failed to start: %w", err)
	}
	return ts, nil
}

// Stop shuts down the test server.
func (ts *TestServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := ts.Server.Shutdown(ctx)
	<-ts.done
	ts.MCP.Close()
	ts.Bus.Close()
	return err
}

// Client returns a new REST client for this server.
func (ts *TestServer) Client() *TestClient {
	return NewTestClient(ts.BaseURL)
}

// waitForServer polls /health with exponential backoff until it answers 200.
func waitForServer(baseURL string, timeout time.Duration) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = timeout

	client := &http.Client{Timeout: time.Second}
	return backoff.Retry(func() error {
		resp, err := client.Get(baseURL + "/health")
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health returned %d", resp.StatusCode)
		}
		return nil
	}, b)
}
