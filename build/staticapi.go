// ABOUTME: Renders the static JSON API files served from public/static-api/.
// ABOUTME: One file per category plus an all-configurations rollup with per-category counts.
package build

import (
	"encoding/json"
	"fmt"

	"github.com/2389-research/lodestone/content"
)

// categoryAPI is the wire shape of public/static-api/<category>.json.
type categoryAPI struct {
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Count       int                `json:"count"`
	Items       []content.Metadata `json:"items"`
}

// allAPI is the wire shape of public/static-api/all-configurations.json.
type allAPI struct {
	TotalCount int                           `json:"totalCount"`
	Counts     map[string]int                `json:"counts"`
	Categories map[string][]content.Metadata `json:"categories"`
}

// CategoryAPIJSON renders the static API file for one category.
func CategoryAPIJSON(res *content.CategoryResult) ([]byte, error) {
	metas := make([]content.Metadata, len(res.Items))
	for i, it := range res.Items {
		metas[i] = it.Meta()
	}
	doc := categoryAPI{
		Category:    res.Category.ID,
		Title:       res.Category.Title,
		Description: res.Category.Description,
		Count:       len(metas),
		Items:       metas,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s static api: %w", res.Category.ID, err)
	}
	return append(data, '\n'), nil
}

// AllConfigurationsJSON renders the combined static API rollup across every
// category in the catalog.
func AllConfigurationsJSON(catalog *content.Catalog) ([]byte, error) {
	doc := allAPI{
		Counts:     make(map[string]int),
		Categories: make(map[string][]content.Metadata),
	}
	for _, res := range catalog.Results() {
		metas := make([]content.Metadata, len(res.Items))
		for i, it := range res.Items {
			metas[i] = it.Meta()
		}
		doc.Categories[res.Category.ID] = metas
		doc.Counts[res.Category.ID] = len(metas)
		doc.TotalCount += len(metas)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal all-configurations: %w", err)
	}
	return append(data, '\n'), nil
}
