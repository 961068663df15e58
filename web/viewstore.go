// ABOUTME: SQLite-backed store for item view events powering view counts and the trending ranking.
// ABOUTME: One row per view keyed by UUID; counts and trending are aggregate queries over the window.
package web

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ViewStore records item page views in SQLite.
type ViewStore struct {
	db *sql.DB
}

// OpenViewStore opens or creates the view database at the given path.
func OpenViewStore(path string) (*ViewStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS view_events (
			event_id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			slug TEXT NOT NULL,
			viewed_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_view_events_item ON view_events(category, slug);
		CREATE INDEX IF NOT EXISTS idx_view_events_time ON view_events(viewed_at);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &ViewStore{db: db}, nil
}

// Close closes the underlying database.
func (v *ViewStore) Close() error {
	return v.db.Close()
}

// RecordView inserts one view event for the item.
func (v *ViewStore) RecordView(category, slug string) error {
	_, err := v.db.Exec(
		"INSERT INTO view_events (event_id, category, slug, viewed_at) VALUES (?, ?, ?, ?)",
		uuid.New().String(),
		category,
		slug,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert view: %w", err)
	}
	return nil
}

// ViewCount returns the all-time view count for one item.
func (v *ViewStore) ViewCount(category, slug string) (int, error) {
	var n int
	err := v.db.QueryRow(
		"SELECT COUNT(*) FROM view_events WHERE category = ? AND slug = ?",
		category, slug,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count views: %w", err)
	}
	return n, nil
}

// TrendingEntry is one item's view count within the trending window.
type TrendingEntry struct {
	Category string
	Slug     string
	Views    int
}

// Trending returns the most-viewed items since the given time, ordered by
// view count descending, capped at limit.
func (v *ViewStore) Trending(since time.Time, limit int) ([]TrendingEntry, error) {
	rows, err := v.db.Query(
		`SELECT category, slug, COUNT(*) AS views
		 FROM view_events
		 WHERE viewed_at >= ?
		 GROUP BY category, slug
		 ORDER BY views DESC, category ASC, slug ASC
		 LIMIT ?`,
		since.UTC().Format(time.RFC3339Nano),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []TrendingEntry
	for rows.Next() {
		var e TrendingEntry
		if err := rows.Scan(&e.Category, &e.Slug, &e.Views); err != nil {
			return nil, fmt.Errorf("scan trending row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
