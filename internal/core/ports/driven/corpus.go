package driven

import "context"

// CorpusSource is a read-only view of the document tree.
type CorpusSource interface {
	// Type returns the source type identifier (e.g., "filesystem", "github").
	Type() string

	// List returns the paths of every file under dir that matches the
	// source's include patterns, relative to the corpus root, sorted.
	// A missing or unreadable dir is an error.
	List(ctx context.Context, dir string) ([]string, error)

	// ReadFile returns the content of a file by its corpus-relative path.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// CorpusChange is a change notification from a watched corpus.
type CorpusChange struct {
	// Path is the corpus-relative path that changed.
	Path string
}

// CorpusWatcher is implemented by corpus sources that can push changes.
type CorpusWatcher interface {
	// Watch emits changes until ctx is cancelled.
	Watch(ctx context.Context) (<-chan CorpusChange, error)
}
