// ABOUTME: Generates public/sitemap.xml and public/robots.txt from routes, catalog items, and guides.
// ABOUTME: URL count invariant: static routes + category indexes + one per item + one per guide file.
package build

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/site"
)

// sitemapURL is one <url> element of the sitemap.
type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// urlSet is the sitemap <urlset> root element.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GuideSlugs lists the slugs of markdown guide files (.md/.mdx) directly
// under dir, sorted. A missing directory yields no guides.
func GuideSlugs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read guides dir %s: %w", dir, err)
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".mdx"):
			slugs = append(slugs, strings.TrimSuffix(name, ".mdx"))
		case strings.HasSuffix(name, ".md"):
			slugs = append(slugs, strings.TrimSuffix(name, ".md"))
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

// SitemapXML renders the sitemap for the configured static routes, every
// category index page, every valid item, and every guide.
func SitemapXML(cfg site.Config, catalog *content.Catalog, guides []string) ([]byte, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	seen := make(map[string]bool)
	add := func(path, freq, prio string) {
		loc := base + path
		if seen[loc] {
			return
		}
		seen[loc] = true
		set.URLs = append(set.URLs, sitemapURL{Loc: loc, ChangeFreq: freq, Priority: prio})
	}

	for _, route := range cfg.StaticRoutes {
		if !strings.HasPrefix(route, "/") {
			route = "/" + route
		}
		add(route, "daily", "0.8")
	}
	for _, res := range catalog.Results() {
		add("/"+res.Category.ID, "daily", "0.9")
		for _, it := range res.Items {
			add("/"+res.Category.ID+"/"+it.Slug, "weekly", "0.7")
		}
	}
	for _, g := range guides {
		add("/guides/"+g, "monthly", "0.6")
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// RobotsTxt renders robots.txt pointing crawlers at the sitemap.
func RobotsTxt(cfg site.Config) []byte {
	base := strings.TrimRight(cfg.BaseURL, "/")
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")
	sb.WriteString("Allow: /\n")
	sb.WriteString("Disallow: /api/\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Sitemap: %s/sitemap.xml\n", base)
	return []byte(sb.String())
}
