// ABOUTME: HTTP server for the content directory: list and detail pages, static artifacts, JSON APIs.
// ABOUTME: chi router over a loaded catalog; pages render through a TTL page cache, views land in SQLite.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389-research/lodestone/changelog"
	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/search"
	"github.com/2389-research/lodestone/site"
)

// pageCacheTTL bounds how stale a cached HTML page can be.
const pageCacheTTL = 5 * time.Minute

// Server serves the directory site over HTTP.
type Server struct {
	cfg       site.Config
	catalog   *content.Catalog
	index     *search.Index
	changelog *changelog.Changelog
	views     *ViewStore
	renderer  *TemplateRenderer
	cache     *PageCache
	router    chi.Router
	publicDir string
}

// NewServer assembles a Server over a loaded catalog. The view store is
// optional: with a nil store, view recording and trending are disabled.
func NewServer(cfg site.Config, catalog *content.Catalog, views *ViewStore) (*Server, error) {
	renderer, err := NewTemplateRenderer(TemplatesFS())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		catalog:   catalog,
		index:     search.NewIndex(catalog.AllMetadata()),
		changelog: changelog.Load(cfg.ChangelogPath),
		views:     views,
		renderer:  renderer,
		cache:     NewPageCache(pageCacheTTL),
		publicDir: filepath.Join(cfg.OutDir, "public"),
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// shutdownGrace bounds how long in-flight requests may run after a
// shutdown signal before the listener is torn down.
const shutdownGrace = 5 * time.Second

// ListenAndServe runs the server on addr until it fails or ctx is
// cancelled. Cancellation drains in-flight requests for up to
// shutdownGrace, then forces the listener closed. A shutdown-triggered
// exit returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		log.Printf("web shutting down addr=%s", addr)
		graceCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(graceCtx); err != nil {
			httpServer.Close()
		}
	}()

	log.Printf("web listening addr=%s items=%d", addr, s.index.Len())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildRouter wires all routes. Category routes are registered explicitly
// from the catalog so unknown top-level paths 404 instead of shadowing
// static files.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/changelog", s.handleChangelog)
	r.Get("/trending", s.handleTrendingPage)

	r.Get("/api/search", s.handleSearchAPI)
	r.Get("/api/trending", s.handleTrendingAPI)

	for _, file := range []string{"sitemap.xml", "robots.txt", "openapi.json", "search-index.json"} {
		r.Get("/"+file, s.servePublicFile(file))
	}
	r.Get("/static-api/{file}", s.handleStaticAPI)

	r.Route("/{category}", func(r chi.Router) {
		r.Get("/", s.handleCategory)
		r.Get("/{slug}", s.handleDetail)
	})

	return r
}

// servePublicFile serves one build artifact from the public output dir.
func (s *Server) servePublicFile(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(s.publicDir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// handleStaticAPI serves files under public/static-api/, rejecting path
// escapes.
func (s *Server) handleStaticAPI(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name != filepath.Base(name) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.publicDir, "static-api", name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// handleHealthz reports liveness plus basic catalog stats.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	valid, invalid := s.catalog.TotalCounts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"valid":   valid,
		"invalid": invalid,
	})
}

// writeHTML writes a rendered page with the HTML content type.
func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// renderPage renders a template through the page cache.
func (s *Server) renderPage(w http.ResponseWriter, cacheKey, templateName string, data any) {
	body, err := s.cache.Get(cacheKey, func() ([]byte, error) {
		return s.renderer.Render(templateName, data)
	})
	if err != nil {
		log.Printf("error rendering %s: %v", templateName, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, body)
}
