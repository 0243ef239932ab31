// Package output writes run artifacts as deterministic JSON files.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.ArtifactStore = (*Writer)(nil)

// Writer writes artifacts relative to a base directory.
// Absolute paths are used as given.
type Writer struct {
	baseDir string
}

// NewWriter creates a writer. An empty baseDir means the working directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteReport writes the match report.
func (w *Writer) WriteReport(path string, report domain.Report) error {
	data, err := MarshalReport(report)
	if err != nil {
		return err
	}
	return w.write(path, data)
}

// WriteGraph writes the relationship graph.
func (w *Writer) WriteGraph(path string, graph *domain.RelationshipGraph) error {
	data, err := MarshalGraph(graph)
	if err != nil {
		return err
	}
	return w.write(path, data)
}

// Resolve returns the file a relative artifact path is written to.
func (w *Writer) Resolve(path string) string {
	if filepath.IsAbs(path) || w.baseDir == "" {
		return path
	}
	return filepath.Join(w.baseDir, path)
}

// write replaces path atomically: readers see the old or the new file, never a partial one.
func (w *Writer) write(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: empty artifact path", domain.ErrInvalidInput)
	}
	target := w.Resolve(path)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}

// ReadGraph loads a previously written relationship graph.
func (w *Writer) ReadGraph(path string) (*domain.RelationshipGraph, error) {
	data, err := os.ReadFile(w.Resolve(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
