package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/output"
	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// LookupInput is the input schema for the lookup_document tool.
type LookupInput struct {
	Identifier string `json:"identifier" jsonschema:"a document identifier such as 'Ordinance #54-89' or 'Interpretation of 2.040(h)'"`
}

// LookupOutput is the output schema for the lookup_document tool.
type LookupOutput struct {
	// Key is the graph key the identifier resolved to.
	Key string `json:"key"`

	// Ref is the parsed identifier.
	Ref output.RefJSON `json:"ref"`

	// Found is true when the key names a document in the corpus.
	Found bool `json:"found"`

	Document      *output.DocumentJSON `json:"document,omitempty"`
	Relationships output.EntryJSON     `json:"relationships"`

	// Registry lists results of the latest run that point at this document.
	Registry []output.ResultJSON `json:"registry"`
}

// ReportInput is the input schema for the match_report tool.
type ReportInput struct {
	Status string `json:"status,omitempty" jsonschema:"only return results with this status: Matched, Ambiguous or Unmatched"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 50)"`
}

// ReportOutput is the output schema for the match_report tool.
type ReportOutput struct {
	RunID           string                       `json:"run_id"`
	Mode            string                       `json:"mode"`
	Summary         output.SummaryJSON           `json:"summary"`
	Results         []output.ResultJSON          `json:"results"`
	UnmatchedCorpus []output.UnmatchedCorpusJSON `json:"unmatched_corpus"`
	Truncated       bool                         `json:"truncated"`
}

const defaultReportLimit = 50

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_document",
		Description: "Resolve a legislative document identifier to its corpus file, relationships and registry records",
	}, s.handleLookup)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "match_report",
		Description: "Show the latest reconciliation report between the registry and the corpus",
	}, s.handleReport)
}

// handleLookup handles the lookup_document tool invocation.
func (s *Server) handleLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, LookupOutput, error) {
	ref, err := s.ports.Reconcile.ParseIdentifier(input.Identifier)
	if err != nil {
		return nil, LookupOutput{}, err
	}

	out := LookupOutput{
		Key:           domain.DocumentKey(ref),
		Ref:           *output.NewRefJSON(&ref),
		Relationships: output.NewEntryJSON(nil),
		Registry:      []output.ResultJSON{},
	}

	graph, err := s.graph(ctx)
	if err != nil && !errors.Is(err, ErrNoGraph) {
		return nil, LookupOutput{}, err
	}
	if graph != nil {
		if info, ok := findDocument(graph, ref); ok {
			out.Key = info.Key
			out.Found = true
			doc := output.NewDocumentJSON(info)
			out.Document = &doc
		}
		if e, ok := graph.Entry(out.Key); ok {
			out.Relationships = output.NewEntryJSON(e)
		}
	}

	run, err := s.latestRun(ctx)
	if err != nil && !errors.Is(err, ErrNoReport) {
		return nil, LookupOutput{}, err
	}
	if run != nil {
		for _, r := range output.NewReportDocument(run.Report).Results {
			if s.resultPointsAt(r, out) {
				out.Registry = append(out.Registry, r)
			}
		}
	}

	return nil, out, nil
}

// findDocument looks the ref up by key. Keys shared by several files carry a
// qualifier, so a miss falls back to the document fields: number and year for
// numbered kinds, section for interpretations with the ordinal picking among
// same-section documents in date order. A lone same-section document is found
// whatever the ordinal says.
func findDocument(g *domain.RelationshipGraph, ref domain.DocumentRef) (domain.DocumentInfo, bool) {
	if info, ok := g.Document(domain.DocumentKey(ref)); ok {
		return info, true
	}

	var found []domain.DocumentInfo
	for _, key := range g.DocumentKeys() {
		info, _ := g.Document(key)
		if info.Kind != ref.Kind {
			continue
		}
		switch {
		case ref.Kind == domain.KindInterpretation:
			if domain.NormalizeSection(info.Section) == ref.SectionKey() {
				found = append(found, info)
			}
		case domain.NormalizeNumber(info.Number) == ref.NumberKey():
			if !ref.HasYear() || info.Year == ref.Year {
				found = append(found, info)
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].Date < found[j].Date })

	switch {
	case len(found) == 1:
		return found[0], true
	case ref.Kind == domain.KindInterpretation && ref.HasOrdinal() && ref.Ordinal <= len(found):
		return found[ref.Ordinal-1], true
	default:
		return domain.DocumentInfo{}, false
	}
}

func (s *Server) resultPointsAt(r output.ResultJSON, out LookupOutput) bool {
	if out.Document != nil && r.CorpusPath == out.Document.FilePath {
		return true
	}
	ref, err := s.ports.Reconcile.ParseIdentifier(r.Identifier)
	return err == nil && domain.DocumentKey(ref) == out.Key
}

// handleReport handles the match_report tool invocation.
func (s *Server) handleReport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	switch domain.MatchStatus(input.Status) {
	case "", domain.StatusMatched, domain.StatusAmbiguous, domain.StatusUnmatched:
	default:
		return nil, ReportOutput{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultReportLimit
	}

	run, err := s.latestRun(ctx)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	doc := output.NewReportDocument(run.Report)
	out := ReportOutput{
		RunID:           run.ID,
		Mode:            string(run.Mode),
		Summary:         doc.Summary,
		Results:         []output.ResultJSON{},
		UnmatchedCorpus: doc.UnmatchedCorpus,
	}
	for _, r := range doc.Results {
		if input.Status != "" && r.Status != input.Status {
			continue
		}
		if len(out.Results) == limit {
			out.Truncated = true
			break
		}
		out.Results = append(out.Results, r)
	}

	return nil, out, nil
}
