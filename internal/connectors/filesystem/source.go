// Package filesystem implements a corpus source over a local directory tree.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// SourceType is the identifier for the filesystem corpus source.
const SourceType = "filesystem"

// Ensure Source implements the interfaces.
var (
	_ driven.CorpusSource  = (*Source)(nil)
	_ driven.CorpusWatcher = (*Source)(nil)
)

// Source reads corpus files from a local directory.
// Paths in and out are slash-separated and relative to the root.
type Source struct {
	rootPath string
	include  []string

	mu      sync.Mutex
	closed  bool
	watcher *watcher
}

// New creates a filesystem source rooted at rootPath.
// include holds doublestar patterns matched against corpus-relative paths;
// empty means every file.
func New(rootPath string, include []string) *Source {
	return &Source{
		rootPath: rootPath,
		include:  include,
	}
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return SourceType
}

// Root returns the root directory.
func (s *Source) Root() string {
	return s.rootPath
}

// Validate checks the root exists and the include patterns are well formed.
func (s *Source) Validate(_ context.Context) error {
	if err := s.checkRoot(); err != nil {
		return err
	}
	for _, p := range s.include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: invalid include pattern %q", domain.ErrInvalidInput, p)
		}
	}
	return nil
}

func (s *Source) checkRoot() error {
	info, err := os.Stat(s.rootPath)
	if err != nil {
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path is not a directory: %s", s.rootPath)
	}
	return nil
}

// List returns the included files under dir, sorted.
// Hidden files and directories are skipped.
func (s *Source) List(ctx context.Context, dir string) ([]string, error) {
	abs, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("list %s: not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != abs && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := s.relative(p)
		if err != nil {
			return err
		}
		if s.included(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadFile returns the content of a corpus-relative path.
func (s *Source) ReadFile(_ context.Context, path string) ([]byte, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return content, err
}

// Close stops any active watch.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.watcher != nil {
		err := s.watcher.close()
		s.watcher = nil
		return err
	}
	return nil
}

// resolve maps a corpus-relative path to an absolute one, rejecting
// paths that would leave the root.
func (s *Source) resolve(rel string) (string, error) {
	clean := filepath.FromSlash(strings.TrimPrefix(rel, "/"))
	if clean == "" {
		clean = "."
	}
	if !filepath.IsLocal(clean) && clean != "." {
		return "", fmt.Errorf("%w: path %q escapes the corpus root", domain.ErrInvalidInput, rel)
	}
	return filepath.Join(s.rootPath, clean), nil
}

func (s *Source) relative(abs string) (string, error) {
	rel, err := filepath.Rel(s.rootPath, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (s *Source) included(rel string) bool {
	if len(s.include) == 0 {
		return true
	}
	for _, pattern := range s.include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// isHidden checks if any element of a path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
