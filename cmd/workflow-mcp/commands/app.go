package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/opencode-ai/workflow-mcp/internal/config"
	"github.com/opencode-ai/workflow-mcp/internal/event"
	"github.com/opencode-ai/workflow-mcp/internal/examples"
	"github.com/opencode-ai/workflow-mcp/internal/logging"
	"github.com/opencode-ai/workflow-mcp/internal/server"
	"github.com/opencode-ai/workflow-mcp/pkg/mcpserver"
	"github.com/opencode-ai/workflow-mcp/pkg/workflow"
)

// app is what every command starts from: the loaded configuration, the
// workflow registry and the event bus.
type app struct {
	cfg *config.Config
	reg *mcpserver.Registry
	bus *event.Bus
}

func newApp() (*app, error) {
	dir, err := GetWorkDir(workDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(afero.NewOsFs(), dir)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	initLogging(cfg)

	reg := mcpserver.NewRegistry()
	if err := examples.Register(reg); err != nil {
		return nil, err
	}

	logging.Debug().Str("dir", dir).Strs("workflows", reg.Names()).Msg("configuration loaded")

	a := &app{
		cfg: cfg,
		reg: reg,
	}
	a.bus = event.NewBus(logging.Component("event"))
	a.bus.SubscribeAll(logEvent(logging.Component("audit")))
	return a, nil
}

// logEvent writes every bus event to logger at debug level.
func logEvent(logger zerolog.Logger) event.Subscriber {
	return func(e event.Event) {
		ev := logger.Debug().Str("type", string(e.Type))
		switch data := e.Data.(type) {
		case workflow.Transition:
			ev = ev.Str("workflow", data.Workflow).
				Str("session", data.SessionID).
				Str("run", data.RunID).
				Int("checkpoint", data.Checkpoint)
			if data.Error != "" {
				ev = ev.Str("error", data.Error)
			}
		case event.CancelledData:
			ev = ev.Str("workflow", data.Workflow).
				Str("session", data.SessionID).
				Str("run", data.RunID)
		}
		ev.Msg("workflow event")
	}
}

func initLogging(cfg *config.Config) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Pretty = cfg.PrettyLogs()
	logCfg.LogToFile = cfg.FileLogs()
	logCfg.LogDir = config.GetPaths().LogDir()
	if !printLogs {
		logCfg.Output = io.Discard
	}
	logging.Init(logCfg)
	if path := logging.GetLogFilePath(); path != "" {
		logging.Info().Str("file", path).Msg("writing logs to file")
	}
}

// Close releases the bus and the log file.
func (a *app) Close() {
	if err := a.bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("closing event bus")
	}
	logging.Close()
}

func (a *app) mcpServer() (*mcpserver.Server, error) {
	return mcpserver.NewServer(a.cfg, a.reg, a.bus, logging.Component("mcp"))
}

// signalContext is parent cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func (a *app) serveStdio(ctx context.Context) error {
	srv, err := a.mcpServer()
	if err != nil {
		return err
	}
	defer srv.Close()

	ctx, stop := signalContext(ctx)
	defer stop()

	logging.Info().Strs("workflows", srv.Workflows()).Msg("serving MCP on stdio")
	err = srv.ServeStdio(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) serveHTTP(ctx context.Context, addr string) error {
	srv, err := a.mcpServer()
	if err != nil {
		return err
	}
	defer srv.Close()

	cfg := server.ConfigFrom(a.cfg)
	if addr != "" {
		cfg.Addr = addr
	}
	httpSrv := server.New(cfg, srv, a.bus, logging.Component("http"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start()
	}()

	ctx, stop := signalContext(ctx)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	return <-errCh
}
