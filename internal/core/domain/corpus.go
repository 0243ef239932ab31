package domain

// CorpusEntry is one file in the document tree.
type CorpusEntry struct {
	// Path is the file path relative to the corpus root. Its directory encodes the kind.
	Path string

	// Kind is the kind implied by the containing directory.
	Kind Kind

	// Ref is derived from the filename, nil when the name matches no grammar.
	Ref *DocumentRef

	// RawDate is the full YYYY-MM-DD date substring when present in the filename.
	RawDate string
}

// Parsed returns true if a ref could be derived from the filename.
func (e CorpusEntry) Parsed() bool {
	return e.Ref != nil
}

// Key returns the stable document key for this entry, empty when unparsed.
func (e CorpusEntry) Key() string {
	if e.Ref == nil {
		return ""
	}
	return DocumentKey(*e.Ref)
}

// CorpusDirectory associates one directory of the corpus with a kind.
type CorpusDirectory struct {
	// Path is relative to the corpus root.
	Path string

	// Kind is the kind of every document in the directory.
	Kind Kind
}
