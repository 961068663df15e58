// ABOUTME: Top-level Bubble Tea model for the directory browser: category tabs, search, list, detail.
// ABOUTME: Implements tea.Model (Init, Update, View) and routes key events between the panels.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/search"
	"github.com/2389-research/lodestone/site"
)

// FocusTarget indicates which panel currently has keyboard focus.
type FocusTarget int

const (
	FocusList FocusTarget = iota
	FocusSearch
)

// AppModel is the top-level Bubble Tea model for the directory browser.
type AppModel struct {
	cfg     site.Config
	catalog *content.Catalog
	index   *search.Index

	categories []content.Category
	catCursor  int // index into categories; -1 means all

	list   ListPanelModel
	detail DetailPanelModel
	input  textinput.Model

	focus  FocusTarget
	width  int
	height int
}

// NewAppModel creates an AppModel over a loaded catalog.
func NewAppModel(cfg site.Config, catalog *content.Catalog) AppModel {
	input := textinput.New()
	input.Placeholder = "search (press /)"
	input.CharLimit = 80

	var cats []content.Category
	for _, res := range catalog.Results() {
		cats = append(cats, res.Category)
	}

	m := AppModel{
		cfg:        cfg,
		catalog:    catalog,
		index:      search.NewIndex(catalog.AllMetadata()),
		categories: cats,
		catCursor:  -1,
		list:       NewListPanelModel(),
		detail:     NewDetailPanelModel(),
		input:      input,
	}
	m.refreshList()
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetHeight(m.panelHeight())
		m.detail.SetSize(m.detailWidth(), m.panelHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey routes a key event based on the current focus.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.focus == FocusSearch {
		switch msg.Type {
		case tea.KeyEsc:
			m.focus = FocusList
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			m.focus = FocusList
			m.input.Blur()
			m.refreshList()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.refreshList()
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/":
		m.focus = FocusSearch
		m.input.Focus()
		return m, textinput.Blink
	case "up", "k":
		m.list.CursorUp()
		m.syncDetail()
	case "down", "j":
		m.list.CursorDown()
		m.syncDetail()
	case "left", "h":
		m.cycleCategory(-1)
	case "right", "l", "tab":
		m.cycleCategory(1)
	case "pgup":
		m.detail.ScrollUp()
	case "pgdown":
		m.detail.ScrollDown()
	}
	return m, nil
}

// cycleCategory moves the category filter left or right; position -1 is the
// all-categories view.
func (m *AppModel) cycleCategory(delta int) {
	n := len(m.categories)
	if n == 0 {
		return
	}
	m.catCursor += delta
	if m.catCursor < -1 {
		m.catCursor = n - 1
	}
	if m.catCursor >= n {
		m.catCursor = -1
	}
	m.refreshList()
}

// refreshList re-runs the search with the current filter state.
func (m *AppModel) refreshList() {
	q := search.Query{Text: m.input.Value(), Sort: search.SortAlphabetical}
	if m.catCursor >= 0 && m.catCursor < len(m.categories) {
		q.Categories = []string{m.categories[m.catCursor].ID}
	}
	m.list.SetItems(m.index.Search(q))
	m.syncDetail()
}

// syncDetail points the detail panel at the selected item.
func (m *AppModel) syncDetail() {
	meta, ok := m.list.Selected()
	if !ok {
		m.detail.SetItem(nil)
		return
	}
	if item, found := m.catalog.Item(meta.Category, meta.Slug); found {
		m.detail.SetItem(item)
	}
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 10 {
		return "Terminal too small."
	}

	header := TitleStyle.Render(m.cfg.Name) + "  " + m.categoryTabs()
	searchLine := m.input.View()

	listW := m.listWidth()
	detailW := m.detailWidth()
	panelH := m.panelHeight()

	listBorder := BorderStyle
	if m.focus == FocusList {
		listBorder = FocusedBorderStyle
	}
	listView := listBorder.Width(listW).Height(panelH).Render(m.list.View(listW - 2))
	detailView := BorderStyle.Width(detailW).Height(panelH).Render(m.detail.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listView, detailView)
	status := StatusBarStyle.Width(m.width).Render(m.statusLine())

	return lipgloss.JoinVertical(lipgloss.Left, header, searchLine, panels, status)
}

// categoryTabs renders the category filter strip.
func (m AppModel) categoryTabs() string {
	parts := []string{m.tabLabel("all", m.catCursor == -1)}
	for i, c := range m.categories {
		parts = append(parts, m.tabLabel(c.ID, i == m.catCursor))
	}
	return strings.Join(parts, " ")
}

// tabLabel styles one category tab.
func (m AppModel) tabLabel(label string, active bool) string {
	if active {
		return SelectedStyle.Render(" " + label + " ")
	}
	return DimStyle.Render(label)
}

// statusLine summarizes the current view for the status bar.
func (m AppModel) statusLine() string {
	scope := "all"
	if m.catCursor >= 0 && m.catCursor < len(m.categories) {
		scope = m.categories[m.catCursor].ID
	}
	return fmt.Sprintf("%d items · %s · ←/→ category · / search · q quit", m.list.Len(), scope)
}

func (m AppModel) listWidth() int   { return m.width * 2 / 5 }
func (m AppModel) detailWidth() int { return m.width - m.listWidth() - 4 }
func (m AppModel) panelHeight() int { return m.height - 5 }

// Run starts the browser over the given catalog and blocks until exit.
func Run(cfg site.Config, catalog *content.Catalog) error {
	model := NewAppModel(cfg, catalog)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
