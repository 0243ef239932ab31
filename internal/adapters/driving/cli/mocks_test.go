package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

// mockReconcileService is a mock implementation of driving.ReconcileService.
type mockReconcileService struct {
	result       *driving.RunResult
	reconcileErr error
	candidates   []driving.ApplyCandidate
	applyErr     error
	run          *domain.Run
	runErr       error

	calls    []driving.ReconcileOptions
	answers  []driving.Decision
	applyRan bool
}

var _ driving.ReconcileService = (*mockReconcileService)(nil)

func (m *mockReconcileService) Reconcile(_ context.Context, opts driving.ReconcileOptions) (*driving.RunResult, error) {
	m.calls = append(m.calls, opts)
	if m.reconcileErr != nil {
		return nil, m.reconcileErr
	}
	return m.result, nil
}

func (m *mockReconcileService) Candidates(_ *driving.RunResult) []driving.ApplyCandidate {
	return m.candidates
}

// Apply asks confirm the way the real service does and records each answer.
func (m *mockReconcileService) Apply(
	ctx context.Context,
	_ *driving.RunResult,
	confirm driving.ConfirmFunc,
) (*domain.ApplySummary, error) {
	m.applyRan = true
	summary := &domain.ApplySummary{Created: make(map[string]string)}

	all := false
	for i, c := range m.candidates {
		decision := driving.DecisionCreate
		if !all {
			d, err := confirm(ctx, c)
			if err != nil {
				return summary, err
			}
			decision = d
			m.answers = append(m.answers, d)
		}

		switch decision {
		case driving.DecisionQuit:
			for _, rest := range m.candidates[i:] {
				summary.Skipped = append(summary.Skipped, rest.Entry.Path)
			}
			return summary, m.applyErr
		case driving.DecisionSkip:
			summary.Skipped = append(summary.Skipped, c.Entry.Path)
			continue
		case driving.DecisionCreateAll:
			all = true
		}
		summary.Created[c.Entry.Path] = fmt.Sprintf("recNew%d", i+1)
	}
	return summary, m.applyErr
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

func (m *mockReconcileService) ParseIdentifier(_ string) (domain.DocumentRef, error) {
	return domain.DocumentRef{}, domain.ErrUnrecognizedFormat
}

// mockArtifactStore keeps artifacts in memory.
type mockArtifactStore struct {
	reports  map[string]domain.Report
	graphs   map[string]*domain.RelationshipGraph
	writeErr error
}

var _ driven.ArtifactStore = (*mockArtifactStore)(nil)

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{
		reports: make(map[string]domain.Report),
		graphs:  make(map[string]*domain.RelationshipGraph),
	}
}

func (m *mockArtifactStore) WriteReport(path string, report domain.Report) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.reports[path] = report
	return nil
}

func (m *mockArtifactStore) WriteGraph(path string, graph *domain.RelationshipGraph) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.graphs[path] = graph
	return nil
}

func (m *mockArtifactStore) ReadGraph(path string) (*domain.RelationshipGraph, error) {
	g, ok := m.graphs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return g, nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    *domain.Settings
	getErr      error
	validateErr error
	setErr      error
	set         map[string]string
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultSettings()
	return &mockSettingsService{settings: &s, set: make(map[string]string)}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"corpus.root", "registry.base_id", "registry.token"}
}

func (m *mockSettingsService) Validate(_ *domain.Settings) error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockWatcher replays a fixed list of changes, then closes the channel.
type mockWatcher struct {
	changes []driven.CorpusChange
	err     error
}

func (m *mockWatcher) Watch(_ context.Context) (<-chan driven.CorpusChange, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan driven.CorpusChange, len(m.changes))
	for _, c := range m.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

// withServices installs services for one test and restores the originals.
func withServices(t *testing.T, rec driving.ReconcileService, store driven.ArtifactStore, settings driving.SettingsService) {
	t.Helper()

	origReconcile, origStore, origSettings := reconcileService, artifactStore, settingsService
	origWatcher, origOutput, origSetupErr := corpusWatcher, outputSettings, setupErr

	reconcileService = rec
	artifactStore = store
	settingsService = settings
	corpusWatcher = nil
	outputSettings = domain.DefaultSettings().Output
	setupErr = nil

	t.Cleanup(func() {
		reconcileService, artifactStore, settingsService = origReconcile, origStore, origSettings
		corpusWatcher, outputSettings, setupErr = origWatcher, origOutput, origSetupErr
	})
}

// executeCommand runs the root command with args and returns everything it printed.
func executeCommand(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if in != nil {
		rootCmd.SetIn(in)
	}
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	verbose, configDir, noHistory = false, "", false
	reconcileLimit, reconcileReport, reconcileGraph, reconcileJSON = 0, "", "", false
	graphPathFlag = ""
	reportJSON = false
	applyLimit, applyYes = 0, false
}

func testReport() domain.Report {
	return domain.Report{
		Results: []domain.MatchResult{
			{
				RegistryID: "rec1", Identifier: "Ordinance #54-89", Status: domain.StatusMatched,
				CorpusPath: "_ordinances/1989-Ord-54.md", Candidates: []string{"_ordinances/1989-Ord-54.md"},
			},
			{
				RegistryID: "rec2", Identifier: "Ordinance #60", Status: domain.StatusAmbiguous,
				Candidates: []string{"_ordinances/1990-Ord-60.md", "_ordinances/2004-Ord-60.md"},
			},
			{RegistryID: "rec3", Identifier: "Miscellaneous Filing", Status: domain.StatusUnmatched},
		},
		UnmatchedCorpus: []domain.UnmatchedCorpus{
			{Entry: domain.CorpusEntry{Path: "_resolutions/2018-Res-259.md", Kind: domain.KindResolution}},
			{Entry: domain.CorpusEntry{Path: "_ordinances/notes.md", Kind: domain.KindOrdinance}, Unparseable: true},
		},
	}
}

func testResult() *driving.RunResult {
	g := domain.NewRelationshipGraph()
	g.AddDocument(domain.DocumentInfo{
		Key: "ordinance-54", Kind: domain.KindOrdinance, Number: "54", Year: 1989,
		FilePath: "_ordinances/1989-Ord-54.md", RegistryID: "rec1",
	})
	_ = g.Link("ordinance-54", domain.RelReferences, "ordinance-12")

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &driving.RunResult{
		Run: domain.Run{
			ID:         "run-1",
			Mode:       domain.RunModeDryRun,
			StartedAt:  start,
			FinishedAt: start.Add(1500 * time.Millisecond),
			Report:     testReport(),
		},
		Graph: g,
	}
}

func testCandidates() []driving.ApplyCandidate {
	return []driving.ApplyCandidate{
		{
			Entry:      domain.CorpusEntry{Path: "_resolutions/2018-Res-259.md", Kind: domain.KindResolution},
			Identifier: "Resolution #259-2018",
		},
		{
			Entry:      domain.CorpusEntry{Path: "_resolutions/2019-Res-12.md", Kind: domain.KindResolution},
			Identifier: "Resolution #12-2019",
		},
	}
}
