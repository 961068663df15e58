// ABOUTME: Tests for the changelog parser: release headings, sections, entries, and degraded loads.
// ABOUTME: Covers heading format variants, the Unreleased heading, and bullets without a section.
package changelog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleChangelog = `# Changelog

All notable changes live here.

## [Unreleased]

### Added
- Something not yet shipped

## [1.2.0] - 2025-06-15

### Added
- Trending page
- MCP server mode

### Fixed
- Sitemap duplicate URLs

## v1.1.0

- Flat bullet without a section
`

func TestParseExtractsReleases(t *testing.T) {
	cl := Parse([]byte(sampleChangelog))
	if len(cl.Releases) != 2 {
		t.Fatalf("expected 2 releases, got %d", len(cl.Releases))
	}

	first := cl.Releases[0]
	if first.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got %q", first.Version)
	}
	if first.Date != "2025-06-15" {
		t.Errorf("expected date 2025-06-15, got %q", first.Date)
	}
	if len(first.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(first.Sections))
	}
	if first.Sections[0].Heading != "Added" || len(first.Sections[0].Entries) != 2 {
		t.Errorf("unexpected Added section: %+v", first.Sections[0])
	}
	if first.Sections[1].Heading != "Fixed" {
		t.Errorf("expected Fixed section, got %q", first.Sections[1].Heading)
	}
}

func TestParseSkipsUnreleased(t *testing.T) {
	cl := Parse([]byte(sampleChangelog))
	for _, r := range cl.Releases {
		if r.Version == "Unreleased" {
			t.Error("Unreleased heading must not become a release")
		}
	}
}

func TestParseBulletsWithoutSection(t *testing.T) {
	cl := Parse([]byte(sampleChangelog))
	last := cl.Releases[len(cl.Releases)-1]
	if last.Version != "1.1.0" {
		t.Fatalf("expected v-prefixed version parsed as 1.1.0, got %q", last.Version)
	}
	if len(last.Sections) != 1 || last.Sections[0].Heading != "Changes" {
		t.Fatalf("expected unnamed bullets in a Changes section, got %+v", last.Sections)
	}
}

func TestParseEmptyInput(t *testing.T) {
	cl := Parse(nil)
	if !cl.Empty() {
		t.Errorf("expected empty changelog, got %d releases", len(cl.Releases))
	}
	if cl.Latest() != nil {
		t.Error("expected nil Latest for empty changelog")
	}
}

func TestLatestReturnsFirstRelease(t *testing.T) {
	cl := Parse([]byte(sampleChangelog))
	latest := cl.Latest()
	if latest == nil || latest.Version != "1.2.0" {
		t.Errorf("expected latest 1.2.0, got %+v", latest)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cl := Load(filepath.Join(t.TempDir(), "CHANGELOG.md"))
	if !cl.Empty() {
		t.Error("expected empty changelog for missing file")
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CHANGELOG.md")
	if err := os.WriteFile(path, []byte(sampleChangelog), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cl := Load(path)
	if len(cl.Releases) != 2 {
		t.Errorf("expected 2 releases, got %d", len(cl.Releases))
	}
}
