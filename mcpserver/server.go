// ABOUTME: MCP server exposing the directory catalog over stdio: search, fetch, and category tools.
// ABOUTME: Tool handlers operate on the same in-memory index the web server uses; the transport is stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/search"
	"github.com/2389-research/lodestone/site"
)

// Server serves the directory catalog to MCP clients.
type Server struct {
	cfg     site.Config
	catalog *content.Catalog
	index   *search.Index
	version string
}

// New creates a Server over a loaded catalog.
func New(cfg site.Config, catalog *content.Catalog, version string) *Server {
	return &Server{
		cfg:     cfg,
		catalog: catalog,
		index:   search.NewIndex(catalog.AllMetadata()),
		version: version,
	}
}

// searchArgs are the inputs of the search_directory tool.
type searchArgs struct {
	Query    string   `json:"query" jsonschema:"search text matched against titles, descriptions, slugs, and tags"`
	Category string   `json:"category,omitempty" jsonschema:"restrict results to one category ID"`
	Tags     []string `json:"tags,omitempty" jsonschema:"require all of these tags"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results (default 20)"`
}

// searchResult is the output of the search_directory tool.
type searchResult struct {
	Count   int                `json:"count"`
	Results []content.Metadata `json:"results"`
}

// getArgs are the inputs of the get_configuration tool.
type getArgs struct {
	Category string `json:"category" jsonschema:"category ID, e.g. agents or mcp"`
	Slug     string `json:"slug" jsonschema:"item slug within the category"`
}

// getResult is the output of the get_configuration tool.
type getResult struct {
	Item *content.Item `json:"item"`
}

// categoryInfo is one entry of the list_categories output.
type categoryInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
}

// listResult is the output of the list_categories tool.
type listResult struct {
	Categories []categoryInfo `json:"categories"`
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "lodestone",
		Title:   s.cfg.Name,
		Version: s.version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_directory",
		Description: "Search the configuration directory by text, category, and tags.",
	}, s.handleSearch)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_configuration",
		Description: "Fetch one directory entry's full record by category and slug.",
	}, s.handleGet)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the directory's categories with item counts.",
	}, s.handleListCategories)

	log.Printf("mcp serving over stdio items=%d", s.index.Len())
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// handleSearch implements the search_directory tool.
func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, searchResult, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}
	q := search.Query{
		Text:  args.Query,
		Tags:  args.Tags,
		Sort:  search.SortRelevance,
		Limit: limit,
	}
	if args.Category != "" {
		if _, ok := s.catalog.Result(args.Category); !ok {
			return nil, searchResult{}, fmt.Errorf("unknown category %q", args.Category)
		}
		q.Categories = []string{args.Category}
	}
	results := s.index.Search(q)
	return nil, searchResult{Count: len(results), Results: results}, nil
}

// handleGet implements the get_configuration tool.
func (s *Server) handleGet(ctx context.Context, req *mcp.CallToolRequest, args getArgs) (*mcp.CallToolResult, getResult, error) {
	item, ok := s.catalog.Item(args.Category, args.Slug)
	if !ok {
		return nil, getResult{}, fmt.Errorf("no item %s/%s", args.Category, args.Slug)
	}
	return nil, getResult{Item: item}, nil
}

// handleListCategories implements the list_categories tool.
func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, listResult, error) {
	var out listResult
	for _, res := range s.catalog.Results() {
		out.Categories = append(out.Categories, categoryInfo{
			ID:          res.Category.ID,
			Title:       res.Category.Title,
			Description: res.Category.Description,
			Count:       len(res.Items),
		})
	}
	return nil, out, nil
}
