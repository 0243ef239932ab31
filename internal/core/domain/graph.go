package domain

import (
	"fmt"
	"sort"
	"strconv"
)

// Relation names one direction of a link between two documents.
type Relation string

// Relations. Every relation has an inverse; related is its own inverse.
const (
	RelAmends          Relation = "amends"
	RelAmendedBy       Relation = "amendedBy"
	RelReferences      Relation = "references"
	RelReferencedBy    Relation = "referencedBy"
	RelInterpretations Relation = "interpretations"
	RelInterprets      Relation = "interprets"
	RelRelated         Relation = "related"
)

// AllRelations returns every relation in serialisation order.
func AllRelations() []Relation {
	return []Relation{
		RelAmends, RelAmendedBy,
		RelReferences, RelReferencedBy,
		RelInterpretations, RelInterprets,
		RelRelated,
	}
}

// IsValid returns true if the relation is recognised.
func (r Relation) IsValid() bool {
	switch r {
	case RelAmends, RelAmendedBy, RelReferences, RelReferencedBy,
		RelInterpretations, RelInterprets, RelRelated:
		return true
	default:
		return false
	}
}

// Inverse returns the relation seen from the other end of the edge.
func (r Relation) Inverse() Relation {
	switch r {
	case RelAmends:
		return RelAmendedBy
	case RelAmendedBy:
		return RelAmends
	case RelReferences:
		return RelReferencedBy
	case RelReferencedBy:
		return RelReferences
	case RelInterpretations:
		return RelInterprets
	case RelInterprets:
		return RelInterpretations
	default:
		return RelRelated
	}
}

// DocumentKey returns the stable graph key "{kind}-{number|date}".
// Interpretations without a date (references to documents not in the corpus)
// fall back to "{kind}-{section}[-{ordinal}]".
func DocumentKey(ref DocumentRef) string {
	switch {
	case ref.Kind == KindInterpretation && ref.Date != "":
		return string(ref.Kind) + "-" + ref.Date
	case ref.Kind == KindInterpretation:
		key := string(ref.Kind) + "-" + ref.SectionKey()
		if ref.HasOrdinal() {
			key += "-" + strconv.Itoa(ref.Ordinal)
		}
		return key
	default:
		return string(ref.Kind) + "-" + ref.NumberKey()
	}
}

// CrossReference is one link found in document content or metadata.
type CrossReference struct {
	// From is the document key of the document declaring the link.
	From string

	// Relation is the link type as seen from From.
	Relation Relation

	// To is the document key of the target, possibly not in the corpus.
	To string

	// ToIdentifier is the identifier text the target was resolved from.
	ToIdentifier string
}

// DocumentInfo is the per-document record consumed by the navigation layer.
type DocumentInfo struct {
	Key        string
	Kind       Kind
	Number     string
	Date       string
	Section    string
	Title      string
	Year       int
	FilePath   string
	RegistryID string
}

// Edge is one directed edge of the graph.
type Edge struct {
	From     string
	Relation Relation
	To       string
}

// GraphEntry holds the related keys of one document, partitioned by relation.
type GraphEntry struct {
	sets map[Relation]map[string]struct{}
}

func newGraphEntry() *GraphEntry {
	return &GraphEntry{sets: make(map[Relation]map[string]struct{})}
}

func (e *GraphEntry) add(rel Relation, key string) {
	set, ok := e.sets[rel]
	if !ok {
		set = make(map[string]struct{})
		e.sets[rel] = set
	}
	set[key] = struct{}{}
}

// Keys returns the sorted keys related by rel.
func (e *GraphEntry) Keys(rel Relation) []string {
	set := e.sets[rel]
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has returns true if key is related by rel.
func (e *GraphEntry) Has(rel Relation, key string) bool {
	_, ok := e.sets[rel][key]
	return ok
}

// Empty returns true if the entry has no links.
func (e *GraphEntry) Empty() bool {
	for _, set := range e.sets {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

// RelationshipGraph maps document keys to their links and document records.
// Links can only be inserted in pairs, so the graph is symmetric by construction.
type RelationshipGraph struct {
	documents map[string]DocumentInfo
	entries   map[string]*GraphEntry
}

// NewRelationshipGraph creates an empty graph.
func NewRelationshipGraph() *RelationshipGraph {
	return &RelationshipGraph{
		documents: make(map[string]DocumentInfo),
		entries:   make(map[string]*GraphEntry),
	}
}

// AddDocument records a document and gives it an (empty) entry.
func (g *RelationshipGraph) AddDocument(info DocumentInfo) {
	g.documents[info.Key] = info
	g.entry(info.Key)
}

// Link inserts (from, rel, to) and (to, rel.Inverse(), from) together.
func (g *RelationshipGraph) Link(from string, rel Relation, to string) error {
	if from == "" || to == "" {
		return fmt.Errorf("%w: empty document key", ErrInvalidInput)
	}
	if !rel.IsValid() {
		return fmt.Errorf("%w: unknown relation %q", ErrInvalidInput, rel)
	}
	g.entry(from).add(rel, to)
	g.entry(to).add(rel.Inverse(), from)
	return nil
}

func (g *RelationshipGraph) entry(key string) *GraphEntry {
	e, ok := g.entries[key]
	if !ok {
		e = newGraphEntry()
		g.entries[key] = e
	}
	return e
}

// Entry returns the links of one document.
func (g *RelationshipGraph) Entry(key string) (*GraphEntry, bool) {
	e, ok := g.entries[key]
	return e, ok
}

// Document returns the record of one document.
func (g *RelationshipGraph) Document(key string) (DocumentInfo, bool) {
	d, ok := g.documents[key]
	return d, ok
}

// Keys returns every key with an entry, sorted.
func (g *RelationshipGraph) Keys() []string {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DocumentKeys returns every key with a document record, sorted.
func (g *RelationshipGraph) DocumentKeys() []string {
	keys := make([]string, 0, len(g.documents))
	for k := range g.documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dangling returns the keys that are linked but have no document record.
// These are referenced documents that are not (yet) in the corpus.
func (g *RelationshipGraph) Dangling() []string {
	var keys []string
	for k := range g.entries {
		if _, ok := g.documents[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Edges returns every directed edge, sorted by from, relation, to.
func (g *RelationshipGraph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.Keys() {
		e := g.entries[from]
		for _, rel := range AllRelations() {
			for _, to := range e.Keys(rel) {
				edges = append(edges, Edge{From: from, Relation: rel, To: to})
			}
		}
	}
	return edges
}
