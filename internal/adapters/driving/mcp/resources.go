package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/output"
)

const (
	// uriScheme is the custom URI scheme for lexsync resources.
	uriScheme = "lexsync://"

	mimeJSON = "application/json"
)

// documentResource is the body of a lexsync://documents/{key} resource.
type documentResource struct {
	Key           string               `json:"key"`
	Document      *output.DocumentJSON `json:"document,omitempty"`
	Relationships output.EntryJSON     `json:"relationships"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "graph",
		Name:        "graph",
		Description: "The relationship graph between legislative documents",
		MIMEType:    mimeJSON,
	}, s.handleGraphResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "report",
		Name:        "report",
		Description: "The report of the latest reconciliation run",
		MIMEType:    mimeJSON,
	}, s.handleReportResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{key}",
		Name:        "document",
		Description: "One document of the relationship graph with its links",
		MIMEType:    mimeJSON,
	}, s.handleDocumentResource)
}

// handleGraphResource returns the full relationship graph.
func (s *Server) handleGraphResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	g, err := s.graph(ctx)
	if err != nil {
		if errors.Is(err, ErrNoGraph) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, err
	}

	data, err := output.MarshalGraph(g)
	if err != nil {
		return nil, fmt.Errorf("marshalling graph: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleReportResource returns the report of the latest stored run.
func (s *Server) handleReportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	run, err := s.latestRun(ctx)
	if err != nil {
		if errors.Is(err, ErrNoReport) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, err
	}

	data, err := output.MarshalReport(run.Report)
	if err != nil {
		return nil, fmt.Errorf("marshalling report: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleDocumentResource returns one document and its links.
// Dangling keys resolve to their links without a document record.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractDocumentKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	g, err := s.graph(ctx)
	if err != nil {
		if errors.Is(err, ErrNoGraph) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, err
	}

	entry, ok := g.Entry(key)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	body := documentResource{Key: key, Relationships: output.NewEntryJSON(entry)}
	if info, ok := g.Document(key); ok {
		doc := output.NewDocumentJSON(info)
		body.Document = &doc
	}

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}
}

// extractDocumentKey extracts the key from a URI like lexsync://documents/{key}.
func extractDocumentKey(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
