package mcp

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
	"github.com/custodia-labs/lexsync/internal/core/services"
)

// mockReconcileService is a mock implementation of driving.ReconcileService.
// Identifiers are parsed with the default conventions.
type mockReconcileService struct {
	run    *domain.Run
	runErr error
	parser *services.IdentifierParser
}

var _ driving.ReconcileService = (*mockReconcileService)(nil)

func newMockReconcileService(run *domain.Run) *mockReconcileService {
	return &mockReconcileService{
		run:    run,
		parser: services.NewIdentifierParser(domain.DefaultConventions()),
	}
}

func (m *mockReconcileService) Reconcile(_ context.Context, _ driving.ReconcileOptions) (*driving.RunResult, error) {
	return nil, nil
}

func (m *mockReconcileService) Candidates(_ *driving.RunResult) []driving.ApplyCandidate {
	return nil
}

func (m *mockReconcileService) Apply(
	_ context.Context,
	_ *driving.RunResult,
	_ driving.ConfirmFunc,
) (*domain.ApplySummary, error) {
	return nil, nil
}

func (m *mockReconcileService) LatestRun(_ context.Context) (*domain.Run, error) {
	if m.runErr != nil {
		return nil, m.runErr
	}
	if m.run == nil {
		return nil, domain.ErrNotFound
	}
	return m.run, nil
}

func (m *mockReconcileService) ParseIdentifier(text string) (domain.DocumentRef, error) {
	return m.parser.Parse(text)
}

// mockGraphSource serves a fixed graph.
type mockGraphSource struct {
	graph *domain.RelationshipGraph
	err   error
}

func (m *mockGraphSource) Graph(_ context.Context) (*domain.RelationshipGraph, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.graph == nil {
		return nil, domain.ErrNotFound
	}
	return m.graph, nil
}

func testGraph() *domain.RelationshipGraph {
	g := domain.NewRelationshipGraph()
	g.AddDocument(domain.DocumentInfo{
		Key: "ordinance-54", Kind: domain.KindOrdinance, Number: "54", Year: 1989,
		Title: "Zoning", FilePath: "_ordinances/1989-Ord-54.md", RegistryID: "rec1",
	})
	g.AddDocument(domain.DocumentInfo{
		Key: "resolution-259", Kind: domain.KindResolution, Number: "259", Year: 2018,
		Title: "Budget", FilePath: "_resolutions/2018-Res-259.md", RegistryID: "rec2",
	})
	g.AddDocument(domain.DocumentInfo{
		Key: "interpretation-2011-04-12", Kind: domain.KindInterpretation, Section: "5.080",
		Date: "2011-04-12", FilePath: "_interpretations/2011-04-12-RE-5.080.md",
	})
	g.AddDocument(domain.DocumentInfo{
		Key: "interpretation-2013-06-01", Kind: domain.KindInterpretation, Section: "5.080",
		Date: "2013-06-01", FilePath: "_interpretations/2013-06-01-RE-5.080.md",
	})
	_ = g.Link("resolution-259", domain.RelAmends, "ordinance-54")
	_ = g.Link("resolution-259", domain.RelReferences, "ordinance-12")
	return g
}

func testRun() *domain.Run {
	return &domain.Run{
		ID:   "run-1",
		Mode: domain.RunModeDryRun,
		Report: domain.Report{
			Results: []domain.MatchResult{
				{
					RegistryID: "rec1", Identifier: "Ordinance #54-89", Status: domain.StatusMatched,
					CorpusPath: "_ordinances/1989-Ord-54.md", Candidates: []string{"_ordinances/1989-Ord-54.md"},
				},
				{
					RegistryID: "rec2", Identifier: "Resolution #259-2018", Status: domain.StatusMatched,
					CorpusPath: "_resolutions/2018-Res-259.md", Candidates: []string{"_resolutions/2018-Res-259.md"},
				},
				{
					RegistryID: "rec3", Identifier: "Ordinance #54", Status: domain.StatusAmbiguous,
					Candidates: []string{"_ordinances/1989-Ord-54.md", "_ordinances/2004-Ord-54.md"},
				},
				{RegistryID: "rec4", Identifier: "Miscellaneous Filing", Status: domain.StatusUnmatched},
			},
			UnmatchedCorpus: []domain.UnmatchedCorpus{
				{Entry: domain.CorpusEntry{Path: "_ordinances/notes.md", Kind: domain.KindOrdinance}, Unparseable: true},
			},
		},
	}
}
