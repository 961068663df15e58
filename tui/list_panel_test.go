// ABOUTME: Tests for the list panel: cursor movement, selection clamping, and window following.
package tui

import (
	"strings"
	"testing"

	"github.com/2389-research/lodestone/content"
)

func listItems(n int) []content.Metadata {
	items := make([]content.Metadata, n)
	for i := range items {
		items[i] = content.Metadata{
			Slug:     string(rune('a' + i)),
			Category: "agents",
			Title:    "Item " + string(rune('A'+i)),
		}
	}
	return items
}

func TestCursorMovement(t *testing.T) {
	m := NewListPanelModel()
	m.SetItems(listItems(3))

	if sel, _ := m.Selected(); sel.Title != "Item A" {
		t.Errorf("expected first item selected, got %q", sel.Title)
	}

	m.CursorDown()
	m.CursorDown()
	if sel, _ := m.Selected(); sel.Title != "Item C" {
		t.Errorf("expected third item, got %q", sel.Title)
	}

	// Down at the end stays put.
	m.CursorDown()
	if sel, _ := m.Selected(); sel.Title != "Item C" {
		t.Errorf("cursor ran past the end: %q", sel.Title)
	}

	m.CursorUp()
	if sel, _ := m.Selected(); sel.Title != "Item B" {
		t.Errorf("expected second item, got %q", sel.Title)
	}
}

func TestCursorUpAtTopStays(t *testing.T) {
	m := NewListPanelModel()
	m.SetItems(listItems(2))
	m.CursorUp()
	if sel, _ := m.Selected(); sel.Title != "Item A" {
		t.Errorf("cursor ran past the top: %q", sel.Title)
	}
}

func TestSetItemsClampsCursor(t *testing.T) {
	m := NewListPanelModel()
	m.SetItems(listItems(5))
	for i := 0; i < 4; i++ {
		m.CursorDown()
	}
	m.SetItems(listItems(2))
	if sel, ok := m.Selected(); !ok || sel.Title != "Item B" {
		t.Errorf("expected cursor clamped to last item, got %q ok=%v", sel.Title, ok)
	}
}

func TestSelectedEmptyList(t *testing.T) {
	m := NewListPanelModel()
	m.SetItems(nil)
	if _, ok := m.Selected(); ok {
		t.Error("expected no selection for empty list")
	}
}

func TestViewWindowFollowsCursor(t *testing.T) {
	m := NewListPanelModel()
	m.SetHeight(3)
	m.SetItems(listItems(10))

	// Move past a 3-row window; the view must contain the cursor row.
	for i := 0; i < 6; i++ {
		m.CursorDown()
	}
	view := m.View(30)
	if !strings.Contains(view, "Item G") {
		t.Errorf("expected window to follow cursor:\n%s", view)
	}
	if strings.Contains(view, "Item A") {
		t.Errorf("expected top rows scrolled out:\n%s", view)
	}
}

func TestWindowPersistsAcrossModelCopies(t *testing.T) {
	m := NewListPanelModel()
	m.SetHeight(3)
	m.SetItems(listItems(10))
	for i := 0; i < 6; i++ {
		m.CursorDown()
	}

	// Bubble Tea passes models by value; rendering a copy must show the
	// same window the cursor operations established.
	snapshot := m
	view := snapshot.View(30)
	if !strings.Contains(view, "Item G") {
		t.Errorf("expected copied model to keep the window:\n%s", view)
	}
	if strings.Contains(view, "Item A") {
		t.Errorf("expected copied model scrolled past the top:\n%s", view)
	}
	if snapshot.offset != m.offset {
		t.Errorf("copy diverged from original: offset %d vs %d", snapshot.offset, m.offset)
	}
}

func TestScrollBackUpRewindsWindow(t *testing.T) {
	m := NewListPanelModel()
	m.SetHeight(3)
	m.SetItems(listItems(10))
	for i := 0; i < 6; i++ {
		m.CursorDown()
	}
	for i := 0; i < 6; i++ {
		m.CursorUp()
	}

	view := m.View(30)
	if !strings.Contains(view, "Item A") {
		t.Errorf("expected window rewound to the top:\n%s", view)
	}
}

func TestViewEmptyList(t *testing.T) {
	m := NewListPanelModel()
	m.SetHeight(5)
	view := m.View(30)
	if !strings.Contains(view, "no matches") {
		t.Errorf("expected placeholder, got %q", view)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("unexpected clip: %q", got)
	}
	got := clip("a very long line of text", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("expected 10-rune clipped line, got %q", got)
	}
}
