// ABOUTME: Generates public/openapi.json describing the static API and search endpoints.
// ABOUTME: Paths are enumerated from the category registry so the document never drifts from the build.
package build

import (
	"encoding/json"
	"fmt"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/site"
)

// OpenAPIJSON renders an OpenAPI 3.1 document covering the static API files
// and the live search endpoint.
func OpenAPIJSON(cfg site.Config, reg *content.Registry) ([]byte, error) {
	paths := map[string]any{}

	for _, cat := range reg.All() {
		paths["/static-api/"+cat.ID+".json"] = map[string]any{
			"get": map[string]any{
				"operationId": "get" + ExportName(cat.ID) + "Metadata",
				"summary":     "List " + cat.Title + " metadata",
				"responses":   jsonOKResponse(cat.Title + " metadata array"),
			},
		}
	}
	paths["/static-api/all-configurations.json"] = map[string]any{
		"get": map[string]any{
			"operationId": "getAllConfigurations",
			"summary":     "All configurations grouped by category",
			"responses":   jsonOKResponse("All configuration metadata"),
		},
	}
	paths["/static-api/events.json"] = map[string]any{
		"get": map[string]any{
			"operationId": "getEventTaxonomy",
			"summary":     "Analytics event name taxonomy",
			"responses":   jsonOKResponse("Event taxonomy"),
		},
	}
	paths["/search-index.json"] = map[string]any{
		"get": map[string]any{
			"operationId": "getSearchIndex",
			"summary":     "Client-side search index",
			"responses":   jsonOKResponse("Search index"),
		},
	}
	paths["/api/search"] = map[string]any{
		"get": map[string]any{
			"operationId": "search",
			"summary":     "Search the directory",
			"parameters": []any{
				queryParam("q", "Search text"),
				queryParam("category", "Restrict to one category"),
				queryParam("tags", "Comma-separated tag filter"),
				queryParam("sort", "relevance, alphabetical, or newest"),
			},
			"responses": jsonOKResponse("Matching metadata"),
		},
	}

	doc := map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       cfg.Name + " API",
			"description": "Static JSON APIs and search for the " + cfg.Name + " content directory.",
			"version":     "1.0.0",
		},
		"servers": []any{
			map[string]any{"url": cfg.BaseURL},
		},
		"paths": paths,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return append(data, '\n'), nil
}

// jsonOKResponse builds the single-200 response block used by every path.
func jsonOKResponse(description string) map[string]any {
	return map[string]any{
		"200": map[string]any{
			"description": description,
			"content": map[string]any{
				"application/json": map[string]any{},
			},
		},
	}
}

// queryParam builds a string query parameter description.
func queryParam(name, description string) map[string]any {
	return map[string]any{
		"name":        name,
		"in":          "query",
		"description": description,
		"schema":      map[string]any{"type": "string"},
	}
}
