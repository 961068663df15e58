// ABOUTME: Category definitions and the registry mapping category IDs to their display metadata.
// ABOUTME: The default set mirrors the directory's built-in collections; site config can override it.
package content

import "fmt"

// Category describes one content collection (a subdirectory of the content
// root and one section of the directory site).
type Category struct {
	ID          string
	Title       string
	Description string
}

// DefaultCategories returns the built-in category set used when the site
// config does not define its own.
func DefaultCategories() []Category {
	return []Category{
		{ID: "agents", Title: "Agents", Description: "Task-focused AI agent configurations"},
		{ID: "mcp", Title: "MCP Servers", Description: "Model Context Protocol server configurations"},
		{ID: "rules", Title: "Rules", Description: "Reusable instruction and guardrail rules"},
		{ID: "commands", Title: "Commands", Description: "Slash command definitions"},
		{ID: "hooks", Title: "Hooks", Description: "Lifecycle hook scripts and configurations"},
		{ID: "statuslines", Title: "Statuslines", Description: "Status line configurations"},
		{ID: "collections", Title: "Collections", Description: "Curated bundles of directory entries"},
	}
}

// Registry holds the ordered category set and provides ID lookups.
type Registry struct {
	ordered []Category
	byID    map[string]Category
}

// NewRegistry builds a Registry from the given categories.
// Duplicate or empty IDs are rejected.
func NewRegistry(cats []Category) (*Registry, error) {
	r := &Registry{byID: make(map[string]Category, len(cats))}
	for _, c := range cats {
		if c.ID == "" {
			return nil, fmt.Errorf("category with empty ID")
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category ID %q", c.ID)
		}
		r.byID[c.ID] = c
		r.ordered = append(r.ordered, c)
	}
	if len(r.ordered) == 0 {
		return nil, fmt.Errorf("no categories defined")
	}
	return r, nil
}

// Get returns the category with the given ID.
func (r *Registry) Get(id string) (Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// All returns the categories in definition order.
func (r *Registry) All() []Category {
	out := make([]Category, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// IDs returns the category IDs in definition order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.ordered))
	for i, c := range r.ordered {
		ids[i] = c.ID
	}
	return ids
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.ordered)
}
