// ABOUTME: JSON API handlers: live search over the in-memory index and the trending ranking.
// ABOUTME: Query parameters mirror the static search-index artifact so clients can use either.
package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/lodestone/search"
)

// handleSearchAPI serves GET /api/search?q=&category=&tags=&sort=&limit=.
func (s *Server) handleSearchAPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := search.Query{
		Text:   q.Get("q"),
		Author: q.Get("author"),
		Sort:   search.SortOrder(q.Get("sort")),
	}
	if cat := q.Get("category"); cat != "" {
		query.Categories = []string{cat}
	}
	if tags := q.Get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				query.Tags = append(query.Tags, t)
			}
		}
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		query.Limit = limit
	}

	results := s.index.Search(query)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query.Text,
		"count":   len(results),
		"results": results,
	})
}

// handleTrendingAPI serves GET /api/trending.
func (s *Server) handleTrendingAPI(w http.ResponseWriter, r *http.Request) {
	if s.views == nil {
		writeJSON(w, http.StatusOK, map[string]any{"window": trendingWindow.String(), "entries": []any{}})
		return
	}
	entries, err := s.views.Trending(time.Now().Add(-trendingWindow), trendingLimit)
	if err != nil {
		log.Printf("trending api err=%v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "trending unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":  trendingWindow.String(),
		"entries": entries,
	})
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}
