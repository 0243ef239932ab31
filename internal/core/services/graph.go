package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// GraphBuilder assembles the relationship graph.
type GraphBuilder struct{}

// NewGraphBuilder creates a graph builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{}
}

// Build records every document and inserts every cross reference with its
// inverse. References to keys with no document are kept as dangling entries.
func (b *GraphBuilder) Build(docs []domain.DocumentInfo, crossRefs []domain.CrossReference) *domain.RelationshipGraph {
	g := domain.NewRelationshipGraph()
	for _, d := range docs {
		g.AddDocument(d)
	}

	for _, x := range crossRefs {
		if x.From == x.To {
			logger.Debug("Ignoring self reference on %s", x.From)
			continue
		}
		if err := g.Link(x.From, x.Relation, x.To); err != nil {
			logger.Warn("Skipping cross reference %s %s %s: %v", x.From, x.Relation, x.To, err)
		}
	}

	return g
}

// CorpusKeys assigns a graph key to every parsed corpus entry, keyed by path.
// Entries sharing a key are told apart by year (numbered kinds) or section
// (interpretations), then by a counter in path order.
func CorpusKeys(corpus []domain.CorpusEntry) map[string]string {
	groups := make(map[string][]domain.CorpusEntry)
	for _, e := range corpus {
		if e.Parsed() {
			groups[e.Key()] = append(groups[e.Key()], e)
		}
	}

	keys := make(map[string]string, len(corpus))
	taken := make(map[string]int)
	for _, base := range sortedKeys(groups) {
		group := groups[base]
		if len(group) == 1 {
			keys[group[0].Path] = base
			taken[base]++
			continue
		}

		sort.Slice(group, func(i, j int) bool { return group[i].Path < group[j].Path })
		for _, e := range group {
			key := qualifiedKey(base, e)
			if n := taken[key]; n > 0 {
				key += "-" + strconv.Itoa(n+1)
			}
			taken[key]++
			keys[e.Path] = key
		}
		logger.Debug("Key %s is shared by %d corpus files; qualifying each", base, len(group))
	}
	return keys
}

func qualifiedKey(base string, e domain.CorpusEntry) string {
	switch {
	case e.Ref.Kind == domain.KindInterpretation && e.Ref.Section != "":
		return base + "-" + e.Ref.SectionKey()
	case e.Ref.HasYear():
		return base + "-" + strconv.Itoa(e.Ref.Year)
	default:
		return base
	}
}

func sortedKeys(m map[string][]domain.CorpusEntry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DocumentsFromReport builds document records for every Matched result.
// titles maps corpus path to title and may be nil.
func DocumentsFromReport(report *domain.Report, corpus []domain.CorpusEntry, titles map[string]string) []domain.DocumentInfo {
	byPath := make(map[string]domain.CorpusEntry, len(corpus))
	for _, e := range corpus {
		byPath[e.Path] = e
	}
	keys := CorpusKeys(corpus)

	var docs []domain.DocumentInfo
	seen := make(map[string]struct{})
	for _, res := range report.Matched() {
		e, ok := byPath[res.CorpusPath]
		if !ok || !e.Parsed() {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}

		docs = append(docs, domain.DocumentInfo{
			Key:        keys[e.Path],
			Kind:       e.Ref.Kind,
			Number:     e.Ref.Number,
			Date:       e.RawDate,
			Section:    domain.DisplaySection(e.Ref.Section),
			Title:      titles[e.Path],
			Year:       e.Ref.Year,
			FilePath:   e.Path,
			RegistryID: res.RegistryID,
		})
	}
	return docs
}

// CrossReferenceResolver turns declared links into keyed cross references.
type CrossReferenceResolver struct {
	parser *IdentifierParser
	corpus []domain.CorpusEntry
	keys   map[string]string
}

// NewCrossReferenceResolver creates a resolver over the scanned corpus.
func NewCrossReferenceResolver(parser *IdentifierParser, corpus []domain.CorpusEntry) *CrossReferenceResolver {
	return &CrossReferenceResolver{parser: parser, corpus: corpus, keys: CorpusKeys(corpus)}
}

// Resolve keys each link. A link whose identifier matches exactly one corpus
// entry gets that entry's key; otherwise the key is derived from the
// identifier itself, the target stays dangling and a diagnostic says so.
func (r *CrossReferenceResolver) Resolve(from string, links []driven.DeclaredLink) ([]domain.CrossReference, []domain.Diagnostic) {
	var (
		refs  []domain.CrossReference
		diags []domain.Diagnostic
	)
	for _, link := range links {
		ref, err := r.parser.Parse(link.Identifier)
		if err != nil {
			diags = append(diags, domain.Diagnostic{
				Code:    domain.DiagUnrecognizedFormat,
				Message: from + ": " + err.Error(),
			})
			continue
		}

		to := domain.DocumentKey(ref)
		if selected := Match(ref, r.corpus); len(selected) == 1 {
			to = r.keys[selected[0].Path]
		} else {
			diags = append(diags, domain.Diagnostic{
				Code:    domain.DiagDanglingReference,
				Message: fmt.Sprintf("%s: %q matches %d corpus files", from, link.Identifier, len(selected)),
			})
		}

		refs = append(refs, domain.CrossReference{
			From:         from,
			Relation:     link.Relation,
			To:           to,
			ToIdentifier: link.Identifier,
		})
	}
	return refs, diags
}

// AnnotateDangling attaches a dangling_reference diagnostic to the Matched
// result behind every document that links to a key with no document record.
func AnnotateDangling(report *domain.Report, g *domain.RelationshipGraph) {
	byRegistryID := make(map[string]int, len(report.Results))
	for i, res := range report.Results {
		if res.Status == domain.StatusMatched {
			byRegistryID[res.RegistryID] = i
		}
	}

	for _, edge := range g.Edges() {
		from, ok := g.Document(edge.From)
		if !ok {
			continue
		}
		if _, ok := g.Document(edge.To); ok {
			continue
		}
		i, ok := byRegistryID[from.RegistryID]
		if !ok {
			continue
		}
		report.Results[i].Diagnostics = append(report.Results[i].Diagnostics, domain.Diagnostic{
			Code:    domain.DiagDanglingReference,
			Message: fmt.Sprintf("%s %s %s, which is not in the graph", edge.From, edge.Relation, edge.To),
		})
	}
}
