// ABOUTME: Tests for sitemap and robots generation: the URL count invariant, dedupe, and priorities.
// ABOUTME: Also covers guide slug discovery from a markdown directory.
package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/lodestone/site"
)

func TestGuideSlugs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"getting-started.mdx", "deploy.md", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("# x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	slugs, err := GuideSlugs(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "deploy" || slugs[1] != "getting-started" {
		t.Errorf("unexpected slugs: %v", slugs)
	}
}

func TestGuideSlugsMissingDir(t *testing.T) {
	slugs, err := GuideSlugs(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("expected no guides, got %v", slugs)
	}
}

func TestSitemapURLCountInvariant(t *testing.T) {
	catalog := testCatalog(t, map[string][]string{
		"agents": {"code-reviewer", "test-runner"},
		"mcp":    {"github-server"},
	})
	cfg := site.Config{
		Name:         "Test",
		BaseURL:      "https://example.com",
		StaticRoutes: []string{"/", "/trending"},
	}
	guides := []string{"getting-started"}

	out, err := SitemapXML(cfg, catalog, guides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(out)

	// 2 static + 2 category indexes + 3 items + 1 guide = 8 URLs.
	if got := strings.Count(s, "<loc>"); got != 8 {
		t.Errorf("expected 8 URLs, got %d:\n%s", got, s)
	}
	if !strings.Contains(s, "<loc>https://example.com/agents/code-reviewer</loc>") {
		t.Error("expected item URL")
	}
	if !strings.Contains(s, "<loc>https://example.com/guides/getting-started</loc>") {
		t.Error("expected guide URL")
	}
}

func TestSitemapDeduplicates(t *testing.T) {
	catalog := testCatalog(t, map[string][]string{"agents": {"code-reviewer"}})
	cfg := site.Config{
		Name:    "Test",
		BaseURL: "https://example.com",
		// "/agents" duplicates the category index URL.
		StaticRoutes: []string{"/", "/agents"},
	}
	out, err := SitemapXML(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(string(out), "https://example.com/agents</loc>"); got != 1 {
		t.Errorf("expected deduplicated category URL, got %d occurrences", got)
	}
}

func TestSitemapTrimsBaseSlash(t *testing.T) {
	catalog := testCatalog(t, map[string][]string{"agents": nil})
	cfg := site.Config{Name: "Test", BaseURL: "https://example.com/", StaticRoutes: []string{"/"}}
	out, err := SitemapXML(cfg, catalog, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "https://example.com//") {
		t.Error("expected trailing base slash to be trimmed")
	}
}

func TestRobotsTxt(t *testing.T) {
	out := RobotsTxt(site.Config{Name: "Test", BaseURL: "https://example.com"})
	s := string(out)
	if !strings.Contains(s, "User-agent: *") {
		t.Error("expected wildcard user-agent")
	}
	if !strings.Contains(s, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("expected sitemap pointer, got:\n%s", s)
	}
}
