// ABOUTME: Core content item model for directory entries loaded from per-item JSON files.
// ABOUTME: Provides the full Item record and the trimmed Metadata projection used by list views and search.
package content

import "strings"

// Item is one directory entry, loaded from content/<category>/<slug>.json.
// The Category field is derived from the directory the file lives in, never
// from the file itself.
type Item struct {
	Slug             string         `json:"slug"`
	Category         string         `json:"category,omitempty"`
	Title            string         `json:"title,omitempty"`
	SEOTitle         string         `json:"seoTitle,omitempty"`
	Description      string         `json:"description"`
	Author           string         `json:"author,omitempty"`
	DateAdded        string         `json:"dateAdded,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	Content          string         `json:"content,omitempty"`
	Configuration    map[string]any `json:"configuration,omitempty"`
	Source           string         `json:"source,omitempty"`
	DocumentationURL string         `json:"documentationUrl,omitempty"`
	Features         []string       `json:"features,omitempty"`
	UseCases         []string       `json:"useCases,omitempty"`
}

// Metadata is the trimmed projection of an Item used for list views, the
// search index, and the static metadata APIs.
type Metadata struct {
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author,omitempty"`
	DateAdded   string   `json:"dateAdded,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ID returns the globally unique identifier for an item: "<category>:<slug>".
func (it *Item) ID() string {
	return it.Category + ":" + it.Slug
}

// DisplayTitle returns the best human-readable title for the item:
// SEOTitle if set, then Title, then a titleized form of the slug.
func (it *Item) DisplayTitle() string {
	if it.SEOTitle != "" {
		return it.SEOTitle
	}
	if it.Title != "" {
		return it.Title
	}
	return Titleize(it.Slug)
}

// Meta returns the trimmed Metadata projection of the item.
func (it *Item) Meta() Metadata {
	return Metadata{
		Slug:        it.Slug,
		Category:    it.Category,
		Title:       it.DisplayTitle(),
		Description: it.Description,
		Author:      it.Author,
		DateAdded:   it.DateAdded,
		Tags:        it.Tags,
	}
}

// HasTag reports whether the item carries the given tag (case-insensitive).
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// acronyms are slug words rendered in full caps rather than title case.
var acronyms = map[string]string{
	"mcp":  "MCP",
	"api":  "API",
	"ai":   "AI",
	"seo":  "SEO",
	"cli":  "CLI",
	"sql":  "SQL",
	"aws":  "AWS",
	"gcp":  "GCP",
	"ci":   "CI",
	"cd":   "CD",
	"http": "HTTP",
	"json": "JSON",
}

// Titleize converts a kebab-case slug into a display title:
// "code-review-agent" becomes "Code Review Agent". Known acronyms are
// upper-cased ("mcp-server" becomes "MCP Server").
func Titleize(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		if up, ok := acronyms[w]; ok {
			words[i] = up
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
