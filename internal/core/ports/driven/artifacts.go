package driven

import "github.com/custodia-labs/lexsync/internal/core/domain"

// ArtifactWriter persists the artifacts of a run.
// Writes replace the previous artifact in full.
type ArtifactWriter interface {
	// WriteReport writes the match report for operator review.
	WriteReport(path string, report domain.Report) error

	// WriteGraph writes the relationship graph for the navigation layer.
	WriteGraph(path string, graph *domain.RelationshipGraph) error
}

// ArtifactReader loads artifacts written by an earlier run.
type ArtifactReader interface {
	// ReadGraph loads a relationship graph. A missing file is domain.ErrNotFound.
	ReadGraph(path string) (*domain.RelationshipGraph, error)
}

// ArtifactStore reads and writes run artifacts.
type ArtifactStore interface {
	ArtifactWriter
	ArtifactReader
}
