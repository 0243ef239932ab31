package tui

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// RenderSummary renders the per-status counts of a report.
func RenderSummary(s *styles.Styles, sum domain.ReportSummary) string {
	if s == nil {
		s = styles.DefaultStyles()
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Reconciliation"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Registry records:  %d\n", sum.Total)
	fmt.Fprintf(&b, "  %s %d\n", s.Status(domain.StatusMatched).Render("Matched:         "), sum.Matched)
	fmt.Fprintf(&b, "  %s %d\n", s.Status(domain.StatusAmbiguous).Render("Ambiguous:       "), sum.Ambiguous)
	fmt.Fprintf(&b, "  %s %d\n", s.Status(domain.StatusUnmatched).Render("Unmatched:       "), sum.Unmatched)
	fmt.Fprintf(&b, "  Unmatched corpus:  %d (%d unparseable)\n", sum.UnmatchedCorpus, sum.Unparseable)
	return b.String()
}

// RenderResults renders every result that is not a clean match,
// followed by the unmatched corpus files.
func RenderResults(s *styles.Styles, report *domain.Report) string {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if report == nil {
		return ""
	}

	var b strings.Builder
	for _, r := range report.Results {
		if r.Status == domain.StatusMatched && len(r.Diagnostics) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s", s.Status(r.Status).Render(fmt.Sprintf("%-9s", r.Status)), r.Identifier)
		if r.CorpusPath != "" {
			fmt.Fprintf(&b, " -> %s", r.CorpusPath)
		}
		b.WriteString("\n")
		for _, c := range r.Candidates {
			if c != r.CorpusPath {
				fmt.Fprintf(&b, "          %s\n", s.Muted.Render(c))
			}
		}
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "          %s %s\n", s.Warning.Render(string(d.Code)), d.Message)
		}
	}

	if len(report.UnmatchedCorpus) > 0 {
		b.WriteString(s.Subtitle.Render("Corpus files with no registry record"))
		b.WriteString("\n")
		for _, u := range report.UnmatchedCorpus {
			note := ""
			switch {
			case u.Unparseable:
				note = " " + s.Muted.Render("(unparseable)")
			case u.Contested():
				note = " " + s.Muted.Render("(named by "+strings.Join(u.ContestedBy, ", ")+")")
			}
			fmt.Fprintf(&b, "  %s%s\n", u.Entry.Path, note)
		}
	}
	return b.String()
}
