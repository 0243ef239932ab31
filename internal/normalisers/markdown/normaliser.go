package markdown

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents with optional YAML frontmatter.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// frontmatter holds the keys lexsync reads. Everything else is ignored.
type frontmatter struct {
	Title      string     `yaml:"title"`
	Amends     stringList `yaml:"amends"`
	References stringList `yaml:"references"`
	Interprets stringList `yaml:"interprets"`
	Related    stringList `yaml:"related"`
}

// stringList accepts either a scalar or a sequence of scalars.
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		*l = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		out := make(stringList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: expected an identifier, got %s", item.Line, kindName(item.Kind))
			}
			if item.Tag != "!!null" {
				out = append(out, item.Value)
			}
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: expected an identifier or list, got %s", node.Line, kindName(node.Kind))
}

// Normalise reads the title and declared links of a markdown document.
// Malformed frontmatter is an error; a document without frontmatter is not.
func (n *Normaliser) Normalise(_ context.Context, filePath string, content []byte) (*driven.NormaliseResult, error) {
	head, body := splitFrontmatter(content)

	var fm frontmatter
	if len(head) > 0 {
		if err := yaml.Unmarshal(head, &fm); err != nil {
			return nil, fmt.Errorf("%w: frontmatter in %s: %w", domain.ErrInvalidInput, filePath, err)
		}
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = titleFromFilename(filePath)
	}

	result := &driven.NormaliseResult{Title: title}
	result.Links = appendLinks(result.Links, domain.RelAmends, fm.Amends)
	result.Links = appendLinks(result.Links, domain.RelReferences, fm.References)
	result.Links = appendLinks(result.Links, domain.RelInterprets, fm.Interprets)
	result.Links = appendLinks(result.Links, domain.RelRelated, fm.Related)
	return result, nil
}

func appendLinks(links []driven.DeclaredLink, rel domain.Relation, ids stringList) []driven.DeclaredLink {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		links = append(links, driven.DeclaredLink{Relation: rel, Identifier: id})
	}
	return links
}

// splitFrontmatter separates a leading "---" delimited YAML block from the body.
// The block ends at a line holding "---" or "...".
func splitFrontmatter(content []byte) (head, body []byte) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	first, rest, ok := cutLine(content)
	if !ok || strings.TrimSpace(string(first)) != "---" {
		return nil, content
	}

	var block [][]byte
	for {
		line, next, more := cutLine(rest)
		trimmed := strings.TrimSpace(string(line))
		if trimmed == "---" || trimmed == "..." {
			return bytes.Join(block, []byte("\n")), next
		}
		if !more {
			// Unterminated: treat the whole file as body.
			return nil, content
		}
		block = append(block, line)
		rest = next
	}
}

// cutLine splits off the first line. ok is false when b is empty.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	if len(b) == 0 {
		return nil, nil, false
	}
	line, rest, _ = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, true
}

// firstHeading returns the text of the first level-one ATX heading.
func firstHeading(body []byte) string {
	inFence := false
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimRight(strings.TrimPrefix(line, "# "), "#"))
		}
	}
	return ""
}

// titleFromFilename turns "2011-04-12-RE-5.080.md" into "2011 04 12 RE 5.080".
func titleFromFilename(filePath string) string {
	name := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	for _, ext := range []string{".markdown", ".md"} {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			name = name[:len(name)-len(ext)]
			break
		}
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}
