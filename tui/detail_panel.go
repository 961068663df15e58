// ABOUTME: Detail panel showing the selected item's full record in a scrollable bubbles viewport.
// ABOUTME: Content is plain text: labeled fields followed by the raw markdown body.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/2389-research/lodestone/content"
)

// DetailPanelModel renders one item's full record.
type DetailPanelModel struct {
	viewport viewport.Model
	item     *content.Item
	ready    bool
}

// NewDetailPanelModel creates an empty detail panel.
func NewDetailPanelModel() DetailPanelModel {
	return DetailPanelModel{}
}

// SetSize resizes the underlying viewport.
func (m *DetailPanelModel) SetSize(width, height int) {
	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.refresh()
}

// SetItem replaces the displayed item and resets scroll position.
func (m *DetailPanelModel) SetItem(item *content.Item) {
	m.item = item
	m.refresh()
	if m.ready {
		m.viewport.GotoTop()
	}
}

// ScrollUp scrolls the detail view up.
func (m *DetailPanelModel) ScrollUp() {
	if m.ready {
		m.viewport.ScrollUp(3)
	}
}

// ScrollDown scrolls the detail view down.
func (m *DetailPanelModel) ScrollDown() {
	if m.ready {
		m.viewport.ScrollDown(3)
	}
}

// refresh re-renders the viewport content from the current item.
func (m *DetailPanelModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.render())
}

// render builds the plain-text detail body.
func (m *DetailPanelModel) render() string {
	if m.item == nil {
		return DimStyle.Render("select an item")
	}
	it := m.item

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(it.DisplayTitle()))
	sb.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(LabelStyle.Render(label))
		sb.WriteString(ValueStyle.Render(value))
		sb.WriteString("\n")
	}
	field("Category", it.Category)
	field("Slug", it.Slug)
	field("Author", it.Author)
	field("Added", it.DateAdded)
	field("Tags", strings.Join(it.Tags, ", "))
	field("Source", it.Source)
	field("Docs", it.DocumentationURL)

	sb.WriteString("\n")
	sb.WriteString(it.Description)
	sb.WriteString("\n")

	if len(it.Features) > 0 {
		sb.WriteString("\n" + TitleStyle.Render("Features") + "\n")
		for _, f := range it.Features {
			fmt.Fprintf(&sb, "  • %s\n", f)
		}
	}
	if len(it.UseCases) > 0 {
		sb.WriteString("\n" + TitleStyle.Render("Use cases") + "\n")
		for _, u := range it.UseCases {
			fmt.Fprintf(&sb, "  • %s\n", u)
		}
	}
	if it.Content != "" {
		sb.WriteString("\n" + TitleStyle.Render("Content") + "\n\n")
		sb.WriteString(it.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// View renders the viewport.
func (m *DetailPanelModel) View() string {
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}
