// Package mcp provides an MCP (Model Context Protocol) server adapter for lexsync.
// It lets AI assistants look up legislative documents, their relationships and
// the latest reconciliation report.
package mcp

import "errors"

var (
	// ErrMissingReconcileService is returned when the reconcile service is not provided.
	ErrMissingReconcileService = errors.New("mcp: reconcile service is required")

	// ErrNoGraph is returned when no relationship graph has been written yet.
	ErrNoGraph = errors.New("mcp: no relationship graph available; run lexsync reconcile first")

	// ErrNoReport is returned when no run has been stored yet.
	ErrNoReport = errors.New("mcp: no stored run; run lexsync reconcile first")
)
