// ABOUTME: Generates SEO collection pages as MDX with YAML frontmatter from tag-filtered catalog slices.
// ABOUTME: A collection matching zero items produces no file; titles with suffix must fit in 60 chars.
package build

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/site"
)

// MaxTitleLen is the longest allowed page title including the site suffix.
// Search engines truncate around 60 characters.
const MaxTitleLen = 60

// CollectionPage is a resolved SEO collection: the definition plus the items
// that matched its filters.
type CollectionPage struct {
	Slug        string
	Title       string
	Description string
	Items       []content.Metadata
}

// BuildCollectionPage resolves a collection definition against the catalog.
// Returns nil when no items match: an empty collection page is worse for
// SEO than no page at all.
func BuildCollectionPage(def site.CollectionConfig, catalog *content.Catalog) *CollectionPage {
	var items []content.Metadata
	for _, it := range catalog.AllItems() {
		if len(def.Categories) > 0 && !containsString(def.Categories, it.Category) {
			continue
		}
		if !matchesAnyTag(it, def.Tags) {
			continue
		}
		items = append(items, it.Meta())
	}
	if len(items) == 0 {
		return nil
	}
	return &CollectionPage{
		Slug:        def.Slug,
		Title:       def.Title,
		Description: def.Description,
		Items:       items,
	}
}

// matchesAnyTag reports whether the item carries at least one of the wanted
// tags. An empty tag filter matches everything in the category filter.
func matchesAnyTag(it *content.Item, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if it.HasTag(t) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// frontmatter is the YAML block at the top of each generated MDX page.
type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Slug        string `yaml:"slug"`
	ItemCount   int    `yaml:"itemCount"`
}

// collectionBody templates the markdown body below the frontmatter.
var collectionBody = template.Must(template.New("collection").Parse(`# {{.Title}}

{{.Description}}

{{range .Items}}## {{.Title}}

{{.Description}}

- Category: {{.Category}}
{{- if .Author}}
- Author: {{.Author}}
{{- end}}
{{- if .Tags}}
- Tags: {{range $i, $t := .Tags}}{{if $i}}, {{end}}{{$t}}{{end}}
{{- end}}

[View configuration](/{{.Category}}/{{.Slug}})

{{end}}`))

// CollectionMDX renders a resolved collection page as MDX bytes.
// The frontmatter is passed explicitly; there is no shared page-metadata
// state between generator runs.
func CollectionMDX(page *CollectionPage, cfg site.Config) ([]byte, error) {
	fm := frontmatter{
		Title:       cfg.TitleFor(page.Title),
		Description: page.Description,
		Slug:        page.Slug,
		ItemCount:   len(page.Items),
	}
	fmBytes, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var body bytes.Buffer
	if err := collectionBody.Execute(&body, page); err != nil {
		return nil, fmt.Errorf("render collection %s: %w", page.Slug, err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(fmBytes)
	out.WriteString("---\n\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// TitleViolation is one page whose full title exceeds MaxTitleLen.
type TitleViolation struct {
	Path   string
	Title  string
	Length int
}

// VerifyTitles scans generated MDX pages under dir and flags every
// frontmatter title longer than MaxTitleLen. The title in frontmatter
// already includes the site suffix.
func VerifyTitles(dir string) ([]TitleViolation, error) {
	var violations []TitleViolation

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) && path == dir {
				return filepath.SkipAll
			}
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".mdx") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		title, err := frontmatterTitle(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if n := utf8.RuneCountInString(title); n > MaxTitleLen {
			violations = append(violations, TitleViolation{Path: path, Title: title, Length: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return violations, nil
}

// frontmatterTitle extracts the title field from a page's YAML frontmatter.
func frontmatterTitle(data []byte) (string, error) {
	s := string(data)
	if !strings.HasPrefix(s, "---\n") {
		return "", fmt.Errorf("no frontmatter")
	}
	rest := s[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", fmt.Errorf("unterminated frontmatter")
	}
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return "", fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm.Title, nil
}
