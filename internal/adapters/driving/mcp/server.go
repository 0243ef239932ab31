package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for lexsync.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "lexsync",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// graph loads the relationship graph, mapping a missing artifact to ErrNoGraph.
func (s *Server) graph(ctx context.Context) (*domain.RelationshipGraph, error) {
	if s.ports.Graph == nil {
		return nil, ErrNoGraph
	}
	g, err := s.ports.Graph.Graph(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNoGraph
		}
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	return g, nil
}

// latestRun loads the latest stored run, mapping an empty history to ErrNoReport.
func (s *Server) latestRun(ctx context.Context) (*domain.Run, error) {
	run, err := s.ports.Reconcile.LatestRun(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNoReport
		}
		return nil, fmt.Errorf("loading latest run: %w", err)
	}
	return run, nil
}
