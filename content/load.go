// ABOUTME: Loads and validates per-item JSON content files into a Catalog, one directory per category.
// ABOUTME: Per-file failures are counted and recorded, never fatal; categories load concurrently.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FileError records a single content file that failed to parse or validate.
type FileError struct {
	Path string
	Err  error
}

// CategoryResult holds the outcome of loading one category directory:
// the valid items (sorted by slug) and the files that were rejected.
type CategoryResult struct {
	Category Category
	Items    []*Item
	Invalid  []FileError
}

// Counts returns the number of valid and invalid files in the result.
func (r *CategoryResult) Counts() (valid, invalid int) {
	return len(r.Items), len(r.Invalid)
}

// Catalog is the loaded content for every category.
type Catalog struct {
	results []*CategoryResult
	byID    map[string]*CategoryResult
}

// LoadCategory reads every .json file under contentDir/<category ID>,
// parses and validates each one, and returns the result. A missing category
// directory yields an empty result, not an error: categories may legitimately
// have no content yet.
func LoadCategory(contentDir string, cat Category) (*CategoryResult, error) {
	dir := filepath.Join(contentDir, cat.ID)
	res := &CategoryResult{Category: cat}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read category dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		item, err := loadItemFile(path, cat.ID)
		if err != nil {
			res.Invalid = append(res.Invalid, FileError{Path: path, Err: err})
			continue
		}
		res.Items = append(res.Items, item)
	}

	sort.Slice(res.Items, func(i, j int) bool {
		return res.Items[i].Slug < res.Items[j].Slug
	})
	return res, nil
}

// loadItemFile parses and validates a single content JSON file.
// The item's slug must match its filename; the category always comes from
// the directory, overriding anything in the file.
func loadItemFile(path, categoryID string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	item.Category = categoryID

	wantSlug := strings.TrimSuffix(filepath.Base(path), ".json")
	if item.Slug == "" {
		item.Slug = wantSlug
	} else if item.Slug != wantSlug {
		return nil, fmt.Errorf("slug %q does not match filename %q", item.Slug, wantSlug)
	}

	if err := ValidateItem(&item); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &item, nil
}

// LoadAll loads every category concurrently and assembles a Catalog.
// Category ordering in the catalog follows registry order regardless of
// completion order.
func LoadAll(ctx context.Context, contentDir string, reg *Registry) (*Catalog, error) {
	cats := reg.All()
	results := make([]*CategoryResult, len(cats))

	g, _ := errgroup.WithContext(ctx)
	for i, cat := range cats {
		g.Go(func() error {
			res, err := LoadCategory(contentDir, cat)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Catalog{results: results, byID: make(map[string]*CategoryResult, len(results))}
	for _, res := range results {
		c.byID[res.Category.ID] = res
	}
	return c, nil
}

// Result returns the load result for a category ID.
func (c *Catalog) Result(categoryID string) (*CategoryResult, bool) {
	res, ok := c.byID[categoryID]
	return res, ok
}

// Results returns all category results in registry order.
func (c *Catalog) Results() []*CategoryResult {
	return c.results
}

// Items returns the valid items for a category, or nil for an unknown one.
func (c *Catalog) Items(categoryID string) []*Item {
	if res, ok := c.byID[categoryID]; ok {
		return res.Items
	}
	return nil
}

// Item returns a single item by category and slug.
func (c *Catalog) Item(categoryID, slug string) (*Item, bool) {
	for _, it := range c.Items(categoryID) {
		if it.Slug == slug {
			return it, true
		}
	}
	return nil, false
}

// AllItems returns every valid item across categories, in registry order
// then slug order.
func (c *Catalog) AllItems() []*Item {
	var out []*Item
	for _, res := range c.results {
		out = append(out, res.Items...)
	}
	return out
}

// AllMetadata returns the trimmed metadata for every valid item.
func (c *Catalog) AllMetadata() []Metadata {
	items := c.AllItems()
	out := make([]Metadata, len(items))
	for i, it := range items {
		out[i] = it.Meta()
	}
	return out
}

// TotalCounts returns the total valid and invalid file counts across all
// categories.
func (c *Catalog) TotalCounts() (valid, invalid int) {
	for _, res := range c.results {
		v, iv := res.Counts()
		valid += v
		invalid += iv
	}
	return valid, invalid
}
