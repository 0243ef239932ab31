package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// Ensure ReconcileService implements the interface.
var _ driving.ReconcileService = (*ReconcileService)(nil)

// ReconcileService runs the phases of a reconciliation in order:
// registry fetch, corpus scan, reconcile, graph build. Each phase completes
// before the next starts.
type ReconcileService struct {
	registry   driven.RegistryClient
	source     driven.CorpusSource
	normaliser driven.Normaliser
	runStore   driven.RunStore

	conventions *domain.Conventions
	parser      *IdentifierParser
	scanner     *CorpusScanner
	reconciler  *Reconciler
	builder     *GraphBuilder

	view            string
	identifierField string
	pathField       string

	now   func() time.Time
	newID func() string
}

// NewReconcileService creates a new reconcile service.
// The normaliser and runStore are optional - if nil, the graph has no cross
// references and runs are not recorded.
func NewReconcileService(
	registry driven.RegistryClient,
	source driven.CorpusSource,
	normaliser driven.Normaliser,
	runStore driven.RunStore,
	conventions *domain.Conventions,
	settings domain.RegistrySettings,
) *ReconcileService {
	parser := NewIdentifierParser(conventions)
	return &ReconcileService{
		registry:        registry,
		source:          source,
		normaliser:      normaliser,
		runStore:        runStore,
		conventions:     conventions,
		parser:          parser,
		scanner:         NewCorpusScanner(conventions, source),
		reconciler:      NewReconciler(parser),
		builder:         NewGraphBuilder(),
		view:            settings.View,
		identifierField: settings.IdentifierField,
		pathField:       settings.PathField,
		now:             time.Now,
		newID:           func() string { return uuid.New().String() },
	}
}

// Reconcile runs one full reconciliation.
func (s *ReconcileService) Reconcile(ctx context.Context, opts driving.ReconcileOptions) (*driving.RunResult, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("%w: registry client", domain.ErrNotConfigured)
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.RunModeDryRun
	}
	started := s.now()
	logger.ResetWarnings()

	// 1. Fetch the complete registry snapshot before anything else
	logger.Section("Registry")
	records, err := s.registry.FetchRecords(ctx, driven.RegistryQuery{View: s.view})
	if err != nil {
		if errors.Is(err, domain.ErrRegistryFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRegistryFetch, err)
	}
	logger.Info("Fetched %d registry records", len(records))

	// 2. Scan the corpus
	logger.Section("Corpus")
	corpus, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Scanned %d corpus files", len(corpus))

	// 3. Reconcile against the whole snapshot; the limit only caps what is reported
	logger.Section("Reconcile")
	report := s.reconciler.Reconcile(records, corpus)
	if opts.Limit > 0 && len(report.Results) > opts.Limit {
		report.Results = report.Results[:opts.Limit]
	}
	sum := report.Summary()
	logger.Info("Matched %d, ambiguous %d, unmatched %d, unmatched corpus %d",
		sum.Matched, sum.Ambiguous, sum.Unmatched, sum.UnmatchedCorpus)

	// 4. Build the relationship graph
	logger.Section("Graph")
	graph := s.buildGraph(ctx, report, corpus)
	AnnotateDangling(report, graph)
	logger.Info("Graph: %d documents, %d dangling", len(graph.DocumentKeys()), len(graph.Dangling()))

	result := &driving.RunResult{
		Run: domain.Run{
			ID:         s.newID(),
			Mode:       mode,
			StartedAt:  started,
			FinishedAt: s.now(),
			Report:     *report,
		},
		Graph:  graph,
		Corpus: corpus,
	}
	s.saveRun(ctx, result.Run)
	logger.Info("Run %s finished with %d warnings", result.Run.ID, logger.Warnings())
	return result, nil
}

// buildGraph reads every matched document for its title and declared links.
// Unreadable content degrades to a document without title or links.
func (s *ReconcileService) buildGraph(
	ctx context.Context,
	report *domain.Report,
	corpus []domain.CorpusEntry,
) *domain.RelationshipGraph {
	keys := CorpusKeys(corpus)
	for _, e := range corpus {
		if key, ok := keys[e.Path]; ok && key != e.Key() {
			logger.Warn("%s shares key %s; keyed as %s", e.Path, e.Key(), key)
		}
	}

	titles := make(map[string]string)
	docs := DocumentsFromReport(report, corpus, nil)
	resolver := NewCrossReferenceResolver(s.parser, corpus)

	var crossRefs []domain.CrossReference
	for _, d := range docs {
		res, ok := s.normalise(ctx, d.FilePath)
		if !ok {
			continue
		}
		titles[d.FilePath] = res.Title

		refs, diags := resolver.Resolve(d.Key, res.Links)
		for _, diag := range diags {
			logger.Warn("%s", diag.Message)
		}
		crossRefs = append(crossRefs, refs...)
	}

	return s.builder.Build(DocumentsFromReport(report, corpus, titles), crossRefs)
}

func (s *ReconcileService) normalise(ctx context.Context, filePath string) (*driven.NormaliseResult, bool) {
	if s.normaliser == nil || !s.handles(filePath) {
		return nil, false
	}
	content, err := s.source.ReadFile(ctx, filePath)
	if err != nil {
		logger.Warn("Reading %s: %v", filePath, err)
		return nil, false
	}
	res, err := s.normaliser.Normalise(ctx, filePath, content)
	if err != nil {
		logger.Warn("Normalising %s: %v", filePath, err)
		return nil, false
	}
	return res, true
}

func (s *ReconcileService) handles(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	for _, e := range s.normaliser.SupportedExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// Candidates returns one proposed registry record per unmatched, parseable
// corpus file. Files an unresolved record already names are left out, and
// interpretations sharing a section get the ordinal that selects them.
func (s *ReconcileService) Candidates(result *driving.RunResult) []driving.ApplyCandidate {
	if result == nil {
		return nil
	}
	ordinals := interpretationOrdinals(result.Corpus)

	var out []driving.ApplyCandidate
	for _, u := range result.Run.Report.UnmatchedCorpus {
		if u.Unparseable {
			continue
		}
		if u.Contested() {
			logger.Debug("Not proposing %s: named by %s", u.Entry.Path, strings.Join(u.ContestedBy, ", "))
			continue
		}

		ref := *u.Entry.Ref
		if n, ok := ordinals[u.Entry.Path]; ok {
			ref.Ordinal = n
		}
		ident := ref.Identifier()
		out = append(out, driving.ApplyCandidate{
			Entry:      u.Entry,
			Identifier: ident,
			Fields: map[string]any{
				s.identifierField: ident,
				s.pathField:       u.Entry.Path,
			},
		})
	}
	return out
}

// interpretationOrdinals maps the path of every interpretation whose section
// has several files to its 1-based chronological position.
func interpretationOrdinals(corpus []domain.CorpusEntry) map[string]int {
	bySection := make(map[string][]domain.CorpusEntry)
	for _, e := range corpus {
		if e.Parsed() && e.Ref.Kind == domain.KindInterpretation && e.Ref.Section != "" {
			bySection[e.Ref.SectionKey()] = append(bySection[e.Ref.SectionKey()], e)
		}
	}

	ordinals := make(map[string]int)
	for _, group := range bySection {
		if len(group) < 2 {
			continue
		}
		for i, e := range SortChronologically(group) {
			ordinals[e.Path] = i + 1
		}
	}
	return ordinals
}

// Apply creates missing registry records one at a time, after confirmation.
func (s *ReconcileService) Apply(
	ctx context.Context,
	result *driving.RunResult,
	confirm driving.ConfirmFunc,
) (*domain.ApplySummary, error) {
	if result == nil || confirm == nil {
		return nil, fmt.Errorf("%w: apply needs a run result and a confirm function", domain.ErrInvalidInput)
	}

	summary := &domain.ApplySummary{Created: make(map[string]string)}
	for _, u := range result.Run.Report.UnmatchedCorpus {
		if u.Unparseable {
			summary.Skipped = append(summary.Skipped, u.Entry.Path)
		}
	}

	logger.Section("Apply")
	candidates := s.Candidates(result)
	createAll := false

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if !createAll {
			decision, err := confirm(ctx, c)
			if err != nil {
				return summary, fmt.Errorf("confirm %s: %w", c.Entry.Path, err)
			}
			switch decision {
			case driving.DecisionSkip:
				summary.Skipped = append(summary.Skipped, c.Entry.Path)
				continue
			case driving.DecisionQuit:
				for _, rest := range candidates[i:] {
					summary.Skipped = append(summary.Skipped, rest.Entry.Path)
				}
				s.recordApply(ctx, result, summary)
				return summary, nil
			case driving.DecisionCreateAll:
				createAll = true
			case driving.DecisionCreate:
			}
		}

		id, err := s.registry.CreateRecord(ctx, c.Fields)
		if err != nil {
			logger.Error("Creating %q for %s: %v", c.Identifier, c.Entry.Path, err)
			summary.Failed = append(summary.Failed, domain.ApplyFailure{Path: c.Entry.Path, Error: err.Error()})
			continue
		}
		logger.Info("Created %s for %s", id, c.Entry.Path)
		summary.Created[c.Entry.Path] = id
	}

	s.recordApply(ctx, result, summary)
	return summary, nil
}

func (s *ReconcileService) recordApply(ctx context.Context, result *driving.RunResult, summary *domain.ApplySummary) {
	result.Run.Mode = domain.RunModeApply
	result.Run.Applied = summary
	result.Run.FinishedAt = s.now()
	s.saveRun(ctx, result.Run)
}

// saveRun records history; a failure here never fails the run.
func (s *ReconcileService) saveRun(ctx context.Context, run domain.Run) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		logger.Warn("Saving run %s: %v", run.ID, err)
	}
}

// LatestRun returns the most recently stored run.
func (s *ReconcileService) LatestRun(ctx context.Context) (*domain.Run, error) {
	if s.runStore == nil {
		return nil, fmt.Errorf("%w: run history", domain.ErrNotConfigured)
	}
	return s.runStore.Latest(ctx)
}

// ParseIdentifier parses identifier text with the configured conventions.
func (s *ReconcileService) ParseIdentifier(text string) (domain.DocumentRef, error) {
	return s.parser.Parse(text)
}
