package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// CorpusScanner turns corpus filenames into CorpusEntries.
type CorpusScanner struct {
	conventions *domain.Conventions
	source      driven.CorpusSource
}

// NewCorpusScanner creates a scanner reading from source.
func NewCorpusScanner(conventions *domain.Conventions, source driven.CorpusSource) *CorpusScanner {
	return &CorpusScanner{
		conventions: conventions,
		source:      source,
	}
}

// ScanAll scans every directory named by the conventions.
func (s *CorpusScanner) ScanAll(ctx context.Context) ([]domain.CorpusEntry, error) {
	return s.Scan(ctx, s.conventions.Directories())
}

// Scan lists each directory and derives a ref from every filename.
// Files matching no grammar are kept with a nil Ref. Entries are sorted by path.
func (s *CorpusScanner) Scan(ctx context.Context, directories []domain.CorpusDirectory) ([]domain.CorpusEntry, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: no corpus source", domain.ErrCorpusScan)
	}

	var entries []domain.CorpusEntry
	for _, dir := range directories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paths, err := s.source.List(ctx, dir.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorpusScan, dir.Path, err)
		}
		logger.Debug("Scanned %s: %d files", dir.Path, len(paths))

		for _, p := range paths {
			entry := s.ParseFilename(dir.Kind, p)
			if !entry.Parsed() {
				logger.Debug("Unparseable %s filename: %s", dir.Kind, p)
			}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// ParseFilename applies the grammar for kind to the base name of p.
func (s *CorpusScanner) ParseFilename(kind domain.Kind, p string) domain.CorpusEntry {
	entry := domain.CorpusEntry{Path: p, Kind: kind}

	grammar, ok := s.conventions.Grammar(kind)
	if !ok {
		return entry
	}

	base := path.Base(p)
	m := grammar.FindStringSubmatch(base)
	if m == nil {
		return entry
	}
	group := func(name string) string {
		if i := grammar.SubexpIndex(name); i >= 0 {
			return m[i]
		}
		return ""
	}

	year, _ := strconv.Atoi(group("year"))

	var (
		ref domain.DocumentRef
		err error
	)
	if kind == domain.KindInterpretation {
		date := group("date")
		ref, err = domain.NewInterpretationRef(group("section"), 0, date, base)
		ref.Year = year
		entry.RawDate = date
	} else {
		ref, err = domain.NewNumberedRef(kind, group("number"), year, base)
	}
	if err != nil {
		return entry
	}

	entry.Ref = &ref
	return entry
}
