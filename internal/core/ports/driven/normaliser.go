package driven

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// Normaliser extracts identity-independent metadata from document content.
type Normaliser interface {
	// SupportedExtensions returns the file extensions this normaliser handles.
	SupportedExtensions() []string

	// Normalise reads a document's title and the links it declares.
	Normalise(ctx context.Context, path string, content []byte) (*NormaliseResult, error)
}

// DeclaredLink is a link a document declares to another document by identifier.
type DeclaredLink struct {
	// Relation is the link type as seen from the declaring document.
	Relation domain.Relation

	// Identifier is a registry-style identifier, e.g. "Ordinance #54-89".
	Identifier string
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is the human-readable title.
	Title string

	// Links are the cross references declared by the document.
	Links []DeclaredLink
}
