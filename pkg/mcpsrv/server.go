package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/logging"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/mcp"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/mcp/tools"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// Server is the Mullvad MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin Mullvad tools.
//
// The client parameter is required and provides access to the Mullvad APIs.
// The server does not close it. Use functional options to configure logging,
// add custom tools, etc.
func NewServer(c *mullvad.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	cfg := newServerConfig(opts)

	logCleanup, err := logging.Setup(cfg.loggingConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	queryEngine := query.NewEngine()
	toolDeps := &tools.Deps{
		Client: c,
		Config: cfg.config,
		Query:  queryEngine,
	}
	deps := &Deps{
		Client: c,
		Config: cfg.config,
		Query:  queryEngine,
	}

	var internalOpts []mcp.ServerOption
	if cfg.builtinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if cfg.builtinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	for _, ext := range cfg.extensions {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			ext(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, e.g. to connect it to a
// transport other than stdio.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
