// ABOUTME: In-memory search over content metadata: substring matching, tag/category filters, sorting.
// ABOUTME: Falls back to fuzzy title ranking when a query matches nothing by substring.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/2389-research/lodestone/content"
)

// SortOrder selects result ordering.
type SortOrder string

const (
	SortRelevance    SortOrder = "relevance"
	SortAlphabetical SortOrder = "alphabetical"
	SortNewest       SortOrder = "newest"
)

// Query describes one search request.
type Query struct {
	Text       string
	Categories []string
	Tags       []string
	Author     string
	Sort       SortOrder
	Limit      int
}

// Index is a linear-scan search index over content metadata.
// The data set is small (hundreds of items), so no inverted index is built.
type Index struct {
	items []content.Metadata
	tags  map[string]int
}

// NewIndex builds an index over the given metadata.
func NewIndex(items []content.Metadata) *Index {
	tags := make(map[string]int)
	for _, it := range items {
		for _, t := range it.Tags {
			tags[t]++
		}
	}
	return &Index{items: items, tags: tags}
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	return len(x.items)
}

// Tags returns the tag frequency table across all indexed items.
func (x *Index) Tags() map[string]int {
	out := make(map[string]int, len(x.tags))
	for k, v := range x.tags {
		out[k] = v
	}
	return out
}

// scored pairs a metadata record with its relevance score.
type scored struct {
	meta  content.Metadata
	score int
}

// Search runs the query and returns matching metadata in the requested order.
func (x *Index) Search(q Query) []content.Metadata {
	candidates := x.filter(q)

	text := strings.ToLower(strings.TrimSpace(q.Text))
	var results []scored
	if text == "" {
		for _, m := range candidates {
			results = append(results, scored{meta: m})
		}
	} else {
		results = substringMatch(candidates, text)
		if len(results) == 0 {
			results = fuzzyMatch(candidates, text)
		}
	}

	sortResults(results, q.Sort)

	out := make([]content.Metadata, 0, len(results))
	for _, r := range results {
		out = append(out, r.meta)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// filter applies the category, tag, and author filters.
func (x *Index) filter(q Query) []content.Metadata {
	var out []content.Metadata
	for _, m := range x.items {
		if len(q.Categories) > 0 && !containsFold(q.Categories, m.Category) {
			continue
		}
		if q.Author != "" && !strings.EqualFold(q.Author, m.Author) {
			continue
		}
		if !hasAllTags(m.Tags, q.Tags) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// substringMatch scores candidates by where the query matches: title hits
// outrank slug hits, which outrank description hits, which outrank tag hits.
func substringMatch(candidates []content.Metadata, text string) []scored {
	var out []scored
	for _, m := range candidates {
		score := 0
		switch {
		case strings.Contains(strings.ToLower(m.Title), text):
			score = 100
		case strings.Contains(m.Slug, text):
			score = 60
		case strings.Contains(strings.ToLower(m.Description), text):
			score = 40
		case tagContains(m.Tags, text):
			score = 20
		default:
			continue
		}
		// Exact title match sorts first among title hits.
		if strings.EqualFold(m.Title, text) {
			score += 50
		}
		out = append(out, scored{meta: m, score: score})
	}
	return out
}

// metaSource adapts a metadata slice to the fuzzy matcher.
type metaSource []content.Metadata

func (s metaSource) String(i int) string { return s[i].Title + " " + s[i].Slug }
func (s metaSource) Len() int            { return len(s) }

// fuzzyMatch ranks candidates with sahilm/fuzzy over title+slug.
func fuzzyMatch(candidates []content.Metadata, text string) []scored {
	matches := fuzzy.FindFrom(text, metaSource(candidates))
	out := make([]scored, 0, len(matches))
	for _, m := range matches {
		out = append(out, scored{meta: candidates[m.Index], score: m.Score})
	}
	return out
}

// sortResults orders results in place. Relevance keeps score order with a
// slug tiebreak; ties elsewhere break by slug too, so output is stable for
// equal inputs.
func sortResults(results []scored, order SortOrder) {
	switch order {
	case SortAlphabetical:
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i].meta, results[j].meta
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.Slug < b.Slug
		})
	case SortNewest:
		sort.Slice(results, func(i, j int) bool {
			a, b := results[i].meta, results[j].meta
			if a.DateAdded != b.DateAdded {
				return a.DateAdded > b.DateAdded
			}
			return a.Slug < b.Slug
		})
	default: // SortRelevance
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].score != results[j].score {
				return results[i].score > results[j].score
			}
			return results[i].meta.Slug < results[j].meta.Slug
		})
	}
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// hasAllTags reports whether tags contains every wanted tag.
func hasAllTags(tags, wanted []string) bool {
	for _, w := range wanted {
		if !containsFold(tags, w) {
			return false
		}
	}
	return true
}

// tagContains reports whether any tag contains text as a substring.
func tagContains(tags []string, text string) bool {
	for _, t := range tags {
		if strings.Contains(t, text) {
			return true
		}
	}
	return false
}
