// ABOUTME: Page handlers for the directory site: home, category listings, item detail, changelog, trending.
// ABOUTME: View-model structs keep templates dumb; item detail records a view event before rendering.
package web

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/lodestone/changelog"
	"github.com/2389-research/lodestone/content"
)

// trendingWindow is the lookback period for the trending ranking.
const trendingWindow = 7 * 24 * time.Hour

// trendingLimit caps the trending list length.
const trendingLimit = 20

// categoryCard is the view-model for one category tile on the home page.
type categoryCard struct {
	ID          string
	Title       string
	Description string
	Count       int
}

// homeData is the view-model for the home page.
type homeData struct {
	PageTitle  string
	SiteName   string
	Categories []categoryCard
	TotalCount int
	TopTags    map[string]int
}

// handleHome renders the home page with category tiles and counts.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		PageTitle: s.cfg.Name,
		SiteName:  s.cfg.Name,
		TopTags:   s.index.Tags(),
	}
	for _, res := range s.catalog.Results() {
		data.Categories = append(data.Categories, categoryCard{
			ID:          res.Category.ID,
			Title:       res.Category.Title,
			Description: res.Category.Description,
			Count:       len(res.Items),
		})
		data.TotalCount += len(res.Items)
	}
	s.renderPage(w, "home", "home.html", data)
}

// categoryData is the view-model for a category listing page.
type categoryData struct {
	PageTitle string
	SiteName  string
	Category  content.Category
	Items     []content.Metadata
}

// handleCategory renders the listing page for one category.
func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "category")
	res, ok := s.catalog.Result(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := categoryData{
		PageTitle: s.cfg.TitleFor(res.Category.Title),
		SiteName:  s.cfg.Name,
		Category:  res.Category,
	}
	for _, it := range res.Items {
		data.Items = append(data.Items, it.Meta())
	}
	s.renderPage(w, "category:"+id, "category.html", data)
}

// detailData is the view-model for an item detail page.
type detailData struct {
	PageTitle   string
	SiteName    string
	Category    content.Category
	Item        *content.Item
	Title       string
	ContentHTML template.HTML
	Views       int
}

// handleDetail renders one item's detail page and records the view.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "category")
	slug := chi.URLParam(r, "slug")

	res, ok := s.catalog.Result(categoryID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	item, ok := s.catalog.Item(categoryID, slug)
	if !ok {
		http.NotFound(w, r)
		return
	}

	views := 0
	if s.views != nil {
		if err := s.views.RecordView(categoryID, slug); err != nil {
			log.Printf("record view item=%s/%s err=%v", categoryID, slug, err)
		}
		if n, err := s.views.ViewCount(categoryID, slug); err == nil {
			views = n
		}
	}

	data := detailData{
		PageTitle:   s.cfg.TitleFor(item.DisplayTitle()),
		SiteName:    s.cfg.Name,
		Category:    res.Category,
		Item:        item,
		Title:       item.DisplayTitle(),
		ContentHTML: template.HTML(RenderMarkdown(item.Content)),
		Views:       views,
	}

	// Detail pages skip the page cache: the view counter changes per hit.
	body, err := s.renderer.Render("detail.html", data)
	if err != nil {
		log.Printf("error rendering detail: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// changelogData is the view-model for the changelog page.
type changelogData struct {
	PageTitle string
	SiteName  string
	Releases  []changelog.Release
}

// handleChangelog renders the parsed changelog.
func (s *Server) handleChangelog(w http.ResponseWriter, r *http.Request) {
	data := changelogData{
		PageTitle: s.cfg.TitleFor("Changelog"),
		SiteName:  s.cfg.Name,
		Releases:  s.changelog.Releases,
	}
	s.renderPage(w, "changelog", "changelog.html", data)
}

// trendingPageData is the view-model for the trending page.
type trendingPageData struct {
	PageTitle string
	SiteName  string
	Entries   []trendingRow
}

// trendingRow joins a trending entry with its catalog metadata.
type trendingRow struct {
	Meta  content.Metadata
	Views int
}

// handleTrendingPage renders the trending listing.
func (s *Server) handleTrendingPage(w http.ResponseWriter, r *http.Request) {
	data := trendingPageData{
		PageTitle: s.cfg.TitleFor("Trending"),
		SiteName:  s.cfg.Name,
		Entries:   s.trendingRows(),
	}

	// Not cached: trending moves with every recorded view.
	body, err := s.renderer.Render("trending.html", data)
	if err != nil {
		log.Printf("error rendering trending: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}

// trendingRows resolves the view-store ranking against the catalog,
// dropping entries whose item has since been removed.
func (s *Server) trendingRows() []trendingRow {
	if s.views == nil {
		return nil
	}
	entries, err := s.views.Trending(time.Now().Add(-trendingWindow), trendingLimit)
	if err != nil {
		log.Printf("trending query err=%v", err)
		return nil
	}
	var rows []trendingRow
	for _, e := range entries {
		if item, ok := s.catalog.Item(e.Category, e.Slug); ok {
			rows = append(rows, trendingRow{Meta: item.Meta(), Views: e.Views})
		}
	}
	return rows
}
