// Package domain defines the core business entities for lexsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRef: The canonical identity of one legislative document
//   - CorpusEntry: One file in the local document tree
//   - MatchResult: The outcome of reconciling one registry record
//   - RelationshipGraph: Amendment, reference and interpretation links
//   - Conventions: The identifier and filename grammars for a corpus
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
