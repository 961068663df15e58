// ABOUTME: Renders public/search-index.json, the client-side search artifact over all metadata.
// ABOUTME: Includes a tag frequency table so the search sidebar can show facet counts without scanning.
package build

import (
	"encoding/json"
	"fmt"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/search"
)

// searchIndexDoc is the wire shape of public/search-index.json.
type searchIndexDoc struct {
	Count int                `json:"count"`
	Items []content.Metadata `json:"items"`
	Tags  map[string]int     `json:"tags"`
}

// SearchIndexJSON renders the search index artifact for the whole catalog.
func SearchIndexJSON(catalog *content.Catalog) ([]byte, error) {
	metas := catalog.AllMetadata()
	idx := search.NewIndex(metas)
	doc := searchIndexDoc{
		Count: len(metas),
		Items: metas,
		Tags:  idx.Tags(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal search index: %w", err)
	}
	return append(data, '\n'), nil
}
