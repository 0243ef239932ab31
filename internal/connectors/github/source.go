package github

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// SourceType is the identifier for the GitHub corpus source.
const SourceType = "github"

// Ensure Source implements the CorpusSource interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source reads a corpus from a GitHub repository at a fixed ref.
// The recursive tree is fetched once and reused by every List call.
type Source struct {
	cfg    *Config
	client *Client

	mu    sync.Mutex
	blobs map[string]string // path -> blob SHA
	paths []string          // sorted blob paths
}

// New creates a GitHub corpus source.
func New(cfg *Config, client *Client) *Source {
	return &Source{cfg: cfg, client: client}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return SourceType
}

// List returns included blobs under dir, sorted.
func (s *Source) List(ctx context.Context, dir string) ([]string, error) {
	if err := s.loadTree(ctx); err != nil {
		return nil, err
	}

	prefix := strings.Trim(dir, "/") + "/"
	var out []string
	found := false
	for _, p := range s.paths {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		found = true
		if isHidden(strings.TrimPrefix(p, prefix)) || !s.included(p) {
			continue
		}
		out = append(out, p)
	}
	if !found {
		return nil, fmt.Errorf("list %s: %w: no such directory in %s@%s",
			dir, domain.ErrNotFound, s.cfg.FullName(), s.cfg.Ref)
	}
	return out, nil
}

// ReadFile returns a file's content. Paths from the tree are read as
// blobs; anything else goes through the contents API at the ref.
func (s *Source) ReadFile(ctx context.Context, path string) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")

	s.mu.Lock()
	sha, ok := s.blobs[path]
	loaded := s.blobs != nil
	s.mu.Unlock()

	if ok {
		return s.client.GetBlob(ctx, s.cfg.Owner, s.cfg.Repo, sha)
	}
	if loaded {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return s.client.GetFileContent(ctx, s.cfg.Owner, s.cfg.Repo, path, s.cfg.Ref)
}

// Refresh drops the cached tree so the next List refetches it.
func (s *Source) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = nil
	s.paths = nil
}

func (s *Source) loadTree(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blobs != nil {
		return nil
	}

	tree, err := s.client.GetTree(ctx, s.cfg.Owner, s.cfg.Repo, s.cfg.Ref)
	if err != nil {
		return fmt.Errorf("tree %s@%s: %w", s.cfg.FullName(), s.cfg.Ref, err)
	}
	if tree.GetTruncated() {
		return fmt.Errorf("%w: %s@%s", ErrTreeTruncated, s.cfg.FullName(), s.cfg.Ref)
	}

	blobs := make(map[string]string, len(tree.Entries))
	paths := make([]string, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		blobs[entry.GetPath()] = entry.GetSHA()
		paths = append(paths, entry.GetPath())
	}
	sort.Strings(paths)

	s.blobs = blobs
	s.paths = paths
	logger.Debug("Loaded %d blobs from %s@%s", len(paths), s.cfg.FullName(), s.cfg.Ref)
	return nil
}

func (s *Source) included(path string) bool {
	if len(s.cfg.Include) == 0 {
		return true
	}
	for _, pattern := range s.cfg.Include {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
