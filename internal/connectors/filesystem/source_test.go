package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// writeTree creates files (with parent directories) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestNew(t *testing.T) {
	s := New("/tmp/corpus", []string{"**/*.md"})

	require.NotNil(t, s)
	assert.Equal(t, "/tmp/corpus", s.Root())
	assert.Equal(t, "filesystem", s.Type())

	var _ driven.CorpusSource = s
}

func TestSource_List(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_ordinances/1989-Ord-54.md":       "a",
		"_ordinances/2004-Ord-54.md":       "b",
		"_ordinances/notes.txt":            "c",
		"_ordinances/archive/1975-Ord-1.md": "d",
		"_ordinances/.drafts/1999-Ord-9.md": "e",
		"_ordinances/.hidden.md":           "f",
		"_resolutions/2018-Res-259.md":     "g",
	})
	s := New(root, []string{"**/*.md"})

	paths, err := s.List(context.Background(), "_ordinances")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"_ordinances/1989-Ord-54.md",
		"_ordinances/2004-Ord-54.md",
		"_ordinances/archive/1975-Ord-1.md",
	}, paths)
}

func TestSource_List_NoIncludeMeansAll(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_resolutions/2018-Res-259.md": "",
		"_resolutions/index.html":      "",
	})

	paths, err := New(root, nil).List(context.Background(), "_resolutions")
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestSource_List_MultiplePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"_resolutions/2018-Res-259.md":       "",
		"_resolutions/2018-Res-260.markdown": "",
		"_resolutions/2018-Res-261.txt":      "",
	})

	paths, err := New(root, []string{"**/*.md", "_resolutions/*.markdown"}).List(context.Background(), "_resolutions")
	require.NoError(t, err)
	assert.Equal(t, []string{"_resolutions/2018-Res-259.md", "_resolutions/2018-Res-260.markdown"}, paths)
}

func TestSource_List_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.md": ""})
	s := New(root, nil)

	t.Run("missing directory", func(t *testing.T) {
		_, err := s.List(context.Background(), "_interpretations")
		assert.Error(t, err)
	})

	t.Run("not a directory", func(t *testing.T) {
		_, err := s.List(context.Background(), "file.md")
		assert.Error(t, err)
	})

	t.Run("escapes root", func(t *testing.T) {
		_, err := s.List(context.Background(), "../elsewhere")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "_ordinances"), 0o755))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.List(ctx, "_ordinances")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSource_List_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "_ordinances"), 0o755))

	paths, err := New(root, nil).List(context.Background(), "_ordinances")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSource_ReadFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"_ordinances/1989-Ord-54.md": "---\ntitle: Zoning\n---\n"})
	s := New(root, nil)

	content, err := s.ReadFile(context.Background(), "_ordinances/1989-Ord-54.md")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Zoning\n---\n", string(content))

	_, err = s.ReadFile(context.Background(), "_ordinances/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.ReadFile(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSource_Validate(t *testing.T) {
	root := t.TempDir()

	assert.NoError(t, New(root, []string{"**/*.md"}).Validate(context.Background()))
	assert.ErrorIs(t, New(root, []string{"[unclosed"}).Validate(context.Background()), domain.ErrInvalidInput)

	err := New(filepath.Join(root, "missing"), nil).Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root path error")
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},
		{"file.md", false},
		{"_ordinances/1989-Ord-54.md", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"", false},
		{"file.hidden", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestSource_Watch(t *testing.T) {
	t.Run("emits included changes", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "_ordinances"), 0o755))
		s := New(root, []string{"**/*.md"})
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := s.WatchWithDebounce(ctx, 20*time.Millisecond)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(root, "_ordinances", "notes.txt"), []byte("x"), 0o644)
			_ = os.WriteFile(filepath.Join(root, "_ordinances", "1990-Ord-60.md"), []byte("x"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, "_ordinances/1990-Ord-60.md", change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for corpus change")
		}
	})

	t.Run("watches new directories", func(t *testing.T) {
		root := t.TempDir()
		s := New(root, []string{"**/*.md"})
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := s.WatchWithDebounce(ctx, 20*time.Millisecond)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.MkdirAll(filepath.Join(root, "_resolutions"), 0o755)
			time.Sleep(100 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(root, "_resolutions", "2018-Res-259.md"), []byte("x"), 0o644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, "_resolutions/2018-Res-259.md", change.Path)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change in new directory")
		}
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		s := New(t.TempDir(), nil)
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := s.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("returns error for non-existent root", func(t *testing.T) {
		s := New("/non/existent/path", nil)

		changes, err := s.Watch(context.Background())

		assert.Error(t, err)
		assert.Nil(t, changes)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("returns error when source is closed", func(t *testing.T) {
		s := New(t.TempDir(), nil)
		require.NoError(t, s.Close())

		changes, err := s.Watch(context.Background())

		assert.ErrorIs(t, err, ErrClosed)
		assert.Nil(t, changes)
	})

	t.Run("rejects a second concurrent watch", func(t *testing.T) {
		s := New(t.TempDir(), nil)
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := s.Watch(ctx)
		require.NoError(t, err)

		_, err = s.Watch(ctx)
		assert.Error(t, err)
	})
}
