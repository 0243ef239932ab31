package mcp

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

// GraphSource returns the most recently built relationship graph.
type GraphSource interface {
	Graph(ctx context.Context) (*domain.RelationshipGraph, error)
}

// Ports aggregates the interfaces required by the MCP server.
type Ports struct {
	// Reconcile parses identifiers and serves stored runs.
	Reconcile driving.ReconcileService

	// Graph serves the relationship graph. Optional.
	Graph GraphSource
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Reconcile == nil {
		return ErrMissingReconcileService
	}
	return nil
}
