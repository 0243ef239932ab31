package output

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// GraphDocument is the JSON form of the relationship graph read by the
// navigation layer. Map keys are document keys.
type GraphDocument struct {
	Documents     map[string]DocumentJSON `json:"documents"`
	Relationships map[string]EntryJSON    `json:"relationships"`
	Dangling      []string                `json:"dangling"`
}

// DocumentJSON carries what the navigation layer needs to render a document
// without re-deriving its identity.
type DocumentJSON struct {
	Kind       string `json:"kind"`
	Number     string `json:"number,omitempty"`
	Date       string `json:"date,omitempty"`
	Section    string `json:"section,omitempty"`
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	FilePath   string `json:"filePath"`
	RegistryID string `json:"registryId,omitempty"`
}

// EntryJSON holds one document's links. Every set is present and sorted.
type EntryJSON struct {
	Amends          []string `json:"amends"`
	AmendedBy       []string `json:"amendedBy"`
	References      []string `json:"references"`
	ReferencedBy    []string `json:"referencedBy"`
	Interpretations []string `json:"interpretations"`
	Interprets      []string `json:"interprets"`
	Related         []string `json:"related"`
}

// NewGraphDocument converts a graph to its JSON form.
func NewGraphDocument(g *domain.RelationshipGraph) GraphDocument {
	doc := GraphDocument{
		Documents:     make(map[string]DocumentJSON),
		Relationships: make(map[string]EntryJSON),
		Dangling:      []string{},
	}
	if g == nil {
		return doc
	}

	for _, key := range g.DocumentKeys() {
		info, _ := g.Document(key)
		doc.Documents[key] = NewDocumentJSON(info)
	}

	for _, key := range g.Keys() {
		e, _ := g.Entry(key)
		doc.Relationships[key] = NewEntryJSON(e)
	}

	doc.Dangling = append(doc.Dangling, g.Dangling()...)
	return doc
}

// NewDocumentJSON converts one document record.
func NewDocumentJSON(info domain.DocumentInfo) DocumentJSON {
	return DocumentJSON{
		Kind:       string(info.Kind),
		Number:     info.Number,
		Date:       info.Date,
		Section:    info.Section,
		Title:      info.Title,
		Year:       info.Year,
		FilePath:   info.FilePath,
		RegistryID: info.RegistryID,
	}
}

// NewEntryJSON converts one document's links. A nil entry has every set empty.
func NewEntryJSON(e *domain.GraphEntry) EntryJSON {
	if e == nil {
		e = &domain.GraphEntry{}
	}
	return EntryJSON{
		Amends:          e.Keys(domain.RelAmends),
		AmendedBy:       e.Keys(domain.RelAmendedBy),
		References:      e.Keys(domain.RelReferences),
		ReferencedBy:    e.Keys(domain.RelReferencedBy),
		Interpretations: e.Keys(domain.RelInterpretations),
		Interprets:      e.Keys(domain.RelInterprets),
		Related:         e.Keys(domain.RelRelated),
	}
}

// ToDomain rebuilds the graph. Links are re-inserted in pairs, so a
// hand-edited file missing an inverse comes back symmetric.
func (d GraphDocument) ToDomain() (*domain.RelationshipGraph, error) {
	g := domain.NewRelationshipGraph()
	for key, info := range d.Documents {
		g.AddDocument(domain.DocumentInfo{
			Key:        key,
			Kind:       domain.Kind(info.Kind),
			Number:     info.Number,
			Date:       info.Date,
			Section:    info.Section,
			Title:      info.Title,
			Year:       info.Year,
			FilePath:   info.FilePath,
			RegistryID: info.RegistryID,
		})
	}
	for from, e := range d.Relationships {
		for rel, keys := range e.sets() {
			for _, to := range keys {
				if err := g.Link(from, rel, to); err != nil {
					return nil, fmt.Errorf("link %s %s %s: %w", from, rel, to, err)
				}
			}
		}
	}
	return g, nil
}

func (e EntryJSON) sets() map[domain.Relation][]string {
	return map[domain.Relation][]string{
		domain.RelAmends:          e.Amends,
		domain.RelAmendedBy:       e.AmendedBy,
		domain.RelReferences:      e.References,
		domain.RelReferencedBy:    e.ReferencedBy,
		domain.RelInterpretations: e.Interpretations,
		domain.RelInterprets:      e.Interprets,
		domain.RelRelated:         e.Related,
	}
}

// MarshalGraph encodes a graph as indented JSON with a trailing newline.
func MarshalGraph(g *domain.RelationshipGraph) ([]byte, error) {
	data, err := json.MarshalIndent(NewGraphDocument(g), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalGraph decodes a graph written by MarshalGraph.
func UnmarshalGraph(data []byte) (*domain.RelationshipGraph, error) {
	var doc GraphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return doc.ToDomain()
}
