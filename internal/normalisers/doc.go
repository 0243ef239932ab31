// Package normalisers provides implementations of the Normaliser interface
// for corpus document formats. A normaliser reads a document's title and the
// cross references it declares, independent of how the document is matched
// to the registry.
package normalisers
