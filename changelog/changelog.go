// ABOUTME: Parses a keep-a-changelog style CHANGELOG.md into typed releases using the goldmark AST.
// ABOUTME: A missing or unparseable changelog degrades to an empty one, never an error.
package changelog

import (
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is one change group within a release (Added, Changed, Fixed, ...).
type Section struct {
	Heading string   `json:"heading"`
	Entries []string `json:"entries"`
}

// Release is one versioned changelog entry.
type Release struct {
	Version  string    `json:"version"`
	Date     string    `json:"date,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Changelog is the parsed changelog document.
type Changelog struct {
	Releases []Release `json:"releases"`
}

// Empty reports whether the changelog has no releases.
func (c *Changelog) Empty() bool {
	return len(c.Releases) == 0
}

// Latest returns the most recent release, or nil for an empty changelog.
func (c *Changelog) Latest() *Release {
	if len(c.Releases) == 0 {
		return nil
	}
	return &c.Releases[0]
}

// releaseHeading matches "## [1.2.3] - 2025-01-02", "## v1.2.3" and similar.
var releaseHeading = regexp.MustCompile(`^\[?v?(\d+\.\d+\.\d+[^\]\s]*)\]?(?:\s*[-—–]\s*(.+))?$`)

// Parse walks the markdown AST and extracts releases from level-2 headings,
// sections from level-3 headings, and entries from list items. Content that
// does not match the release shape (an "Unreleased" heading, prose between
// sections) is skipped rather than rejected.
func Parse(src []byte) *Changelog {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	cl := &Changelog{}
	var cur *Release
	var curSection *Section

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			txt := strings.TrimSpace(nodeText(n, src))
			switch n.Level {
			case 2:
				flushSection(cur, &curSection)
				if m := releaseHeading.FindStringSubmatch(txt); m != nil {
					cl.Releases = append(cl.Releases, Release{Version: m[1], Date: strings.TrimSpace(m[2])})
					cur = &cl.Releases[len(cl.Releases)-1]
				} else {
					cur = nil
				}
			case 3:
				flushSection(cur, &curSection)
				if cur != nil {
					curSection = &Section{Heading: txt}
				}
			}
		case *ast.List:
			if cur == nil {
				continue
			}
			if curSection == nil {
				// Bullets directly under a release heading get an unnamed section.
				curSection = &Section{Heading: "Changes"}
			}
			for li := n.FirstChild(); li != nil; li = li.NextSibling() {
				entry := strings.TrimSpace(nodeText(li, src))
				if entry != "" {
					curSection.Entries = append(curSection.Entries, entry)
				}
			}
		}
	}
	flushSection(cur, &curSection)
	return cl
}

// flushSection appends the in-progress section to the current release.
// Sections with no entries are dropped.
func flushSection(cur *Release, sec **Section) {
	if cur != nil && *sec != nil && len((*sec).Entries) > 0 {
		cur.Sections = append(cur.Sections, **sec)
	}
	*sec = nil
}

// nodeText collects the raw text of a node's descendants.
func nodeText(node ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// Load reads and parses the changelog at path. Any failure logs a warning
// and returns an empty changelog so the rest of the build proceeds.
func Load(path string) *Changelog {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("changelog: read %s: %v (using empty changelog)", path, err)
		}
		return &Changelog{}
	}
	return Parse(data)
}
