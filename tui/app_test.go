// ABOUTME: Tests for the browser app model: key routing, category cycling, and search focus.
// ABOUTME: Drives Update with synthetic key and window-size messages over a fixture catalog.
package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/site"
)

func fixtureApp(t *testing.T) AppModel {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"agents/code-reviewer.json": `{"title": "Code Reviewer", "description": "Reviews pull requests."}`,
		"agents/test-runner.json":   `{"title": "Test Runner", "description": "Runs tests."}`,
		"mcp/github-server.json":    `{"title": "GitHub Server", "description": "GitHub MCP server."}`,
	}
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	cfg := site.Config{
		Name: "Lodestone",
		Categories: []site.CategoryConfig{
			{ID: "agents", Title: "Agents"},
			{ID: "mcp", Title: "MCP Servers"},
		},
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	catalog, err := content.LoadAll(context.Background(), dir, reg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return NewAppModel(cfg, catalog)
}

func press(m AppModel, key string) AppModel {
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func TestInitialStateShowsAllItems(t *testing.T) {
	m := fixtureApp(t)
	if m.list.Len() != 3 {
		t.Errorf("expected all 3 items listed, got %d", m.list.Len())
	}
	if m.catCursor != -1 {
		t.Errorf("expected all-categories view, got cursor %d", m.catCursor)
	}
}

func TestCategoryCycling(t *testing.T) {
	m := fixtureApp(t)

	m = press(m, "tab")
	if m.catCursor != 0 || m.list.Len() != 2 {
		t.Errorf("expected agents filter (2 items), got cursor=%d len=%d", m.catCursor, m.list.Len())
	}

	m = press(m, "tab")
	if m.catCursor != 1 || m.list.Len() != 1 {
		t.Errorf("expected mcp filter (1 item), got cursor=%d len=%d", m.catCursor, m.list.Len())
	}

	// Cycling past the last category wraps to the all view.
	m = press(m, "tab")
	if m.catCursor != -1 || m.list.Len() != 3 {
		t.Errorf("expected wrap to all, got cursor=%d len=%d", m.catCursor, m.list.Len())
	}

	// Left from the all view wraps to the last category.
	m = press(m, "h")
	if m.catCursor != 1 {
		t.Errorf("expected wrap to last category, got %d", m.catCursor)
	}
}

func TestListNavigationSyncsDetail(t *testing.T) {
	m := fixtureApp(t)
	m = press(m, "j")
	sel, ok := m.list.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Title != "GitHub Server" {
		t.Errorf("expected second alphabetical item, got %q", sel.Title)
	}
}

func TestSearchFocusAndFilter(t *testing.T) {
	m := fixtureApp(t)

	m = press(m, "/")
	if m.focus != FocusSearch {
		t.Fatal("expected search focus after /")
	}

	for _, r := range "reviewer" {
		m = press(m, string(r))
	}
	if m.list.Len() != 1 {
		t.Errorf("expected live filter to 1 item, got %d", m.list.Len())
	}

	m = press(m, "enter")
	if m.focus != FocusList {
		t.Error("expected list focus after enter")
	}
}

func TestEscClearsSearchFocus(t *testing.T) {
	m := fixtureApp(t)
	m = press(m, "/")
	m = press(m, "esc")
	if m.focus != FocusList {
		t.Error("expected esc to return focus to the list")
	}
}

func TestQuitKeys(t *testing.T) {
	m := fixtureApp(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
}

func TestWindowSizeEnablesView(t *testing.T) {
	m := fixtureApp(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)
	view := m.View()
	if view == "Initializing..." {
		t.Error("expected rendered view after window size")
	}
}
