// ABOUTME: Scrollable item list panel for the directory browser with cursor and viewport windowing.
// ABOUTME: Rows show title plus dimmed tags; the selection is exposed for the detail panel to follow.
package tui

import (
	"fmt"
	"strings"

	"github.com/2389-research/lodestone/content"
)

// ListPanelModel renders a scrollable list of content metadata.
// The visible window is maintained by the cursor operations so View stays
// read-only and safe to call on a model copy.
type ListPanelModel struct {
	items  []content.Metadata
	cursor int
	offset int
	height int
}

// NewListPanelModel creates an empty list panel.
func NewListPanelModel() ListPanelModel {
	return ListPanelModel{}
}

// SetHeight updates the number of visible rows and re-anchors the window.
func (m *ListPanelModel) SetHeight(height int) {
	m.height = height
	m.scrollToCursor()
}

// SetItems replaces the list contents and clamps the cursor.
func (m *ListPanelModel) SetItems(items []content.Metadata) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = len(items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.offset = 0
	m.scrollToCursor()
}

// Len returns the number of listed items.
func (m *ListPanelModel) Len() int {
	return len(m.items)
}

// CursorUp moves the selection up one row.
func (m *ListPanelModel) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.scrollToCursor()
}

// CursorDown moves the selection down one row.
func (m *ListPanelModel) CursorDown() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
	m.scrollToCursor()
}

// scrollToCursor shifts the window so the cursor row stays visible.
func (m *ListPanelModel) scrollToCursor() {
	if m.height < 1 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// Selected returns the currently selected item, if any.
func (m *ListPanelModel) Selected() (content.Metadata, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return content.Metadata{}, false
	}
	return m.items[m.cursor], true
}

// View renders the list into a width×height cell block using the window
// established by the last cursor or size change.
func (m *ListPanelModel) View(width int) string {
	if m.height < 1 || width < 4 {
		return ""
	}
	if len(m.items) == 0 {
		return DimStyle.Render("no matches")
	}

	var rows []string
	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		it := m.items[i]
		line := fmt.Sprintf("%s  %s", it.Title, TagStyle.Render(strings.Join(it.Tags, " ")))
		line = clip(line, width)
		if i == m.cursor {
			line = SelectedStyle.Render(clip(it.Title, width))
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// clip truncates a rendered line to width runes.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
