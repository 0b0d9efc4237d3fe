// Package serve exposes the converted docs tree to MCP clients over
// stdio or streamable HTTP.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mattstanbrell/amped/src/config"
	"github.com/mattstanbrell/amped/src/pipeline"
)

// Server wraps an MCP server whose tools answer from the docs tree.
type Server struct {
	Server *mcp.Server
	cfg    config.ServeConfig
	logger *slog.Logger
}

// New creates a docs server and registers its tools.
func New(cfg config.ServeConfig, conv *pipeline.Converter, logger *slog.Logger) *Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "amped",
			Version: Version,
		},
		&mcp.ServerOptions{Logger: logger},
	)

	s := &Server{
		Server: srv,
		cfg:    cfg,
		logger: logger.With("area", "serve"),
	}
	registerTools(srv, conv, s.logger)
	return s
}

// Run starts the server on the configured transport and blocks until
// SIGINT/SIGTERM, ctx cancellation, or the transport closing.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch s.cfg.Transport {
	case config.TransportStdio:
		return s.runStdio(ctx)
	case config.TransportHTTP:
		return s.runHTTP(ctx)
	default:
		return fmt.Errorf("unsupported serve transport: %s", s.cfg.Transport)
	}
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("starting stdio transport")
	return s.Server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) runHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return s.Server },
		&mcp.StreamableHTTPOptions{Logger: s.logger},
	)

	mux := http.NewServeMux()
	mux.Handle(s.cfg.HTTP.Path, handler)

	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.HTTP.Addr, err)
	}
	s.logger.Info("starting HTTP transport", "addr", ln.Addr(), "path", s.cfg.HTTP.Path)

	srv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
