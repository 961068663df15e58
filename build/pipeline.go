// ABOUTME: Build orchestrator: loads the catalog, checks the hash cache, and fans out artifact writers.
// ABOUTME: Unchanged categories are skipped wholesale; cross-category artifacts rebuild when any input moved.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/2389-research/lodestone/changelog"
	"github.com/2389-research/lodestone/content"
	"github.com/2389-research/lodestone/site"
)

// CacheFileName is the hash cache file written to the output root.
const CacheFileName = ".lodestone-cache.json"

// Stats summarizes one build run.
type Stats struct {
	BuildID           string
	Categories        int
	SkippedCategories int
	ValidFiles        int
	InvalidFiles      int
	ArtifactsWritten  int
	CollectionsBuilt  int
	CollectionsEmpty  int
	Duration          time.Duration
}

// Builder runs the content build pipeline for one site configuration.
type Builder struct {
	cfg   site.Config
	reg   *content.Registry
	cache *HashCache
	force bool
}

// NewBuilder constructs a Builder. force bypasses the hash cache so every
// artifact is rewritten.
func NewBuilder(cfg site.Config, force bool) (*Builder, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	cachePath := filepath.Join(cfg.OutDir, CacheFileName)
	return &Builder{
		cfg:   cfg,
		reg:   reg,
		cache: LoadHashCache(cachePath),
		force: force,
	}, nil
}

// Run executes the full pipeline and returns its stats. Per-category
// failures are logged and skip that category; Run errors only when the
// whole build is unusable.
func (b *Builder) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{BuildID: ulid.Make().String()}
	log.Printf("build start id=%s content=%s out=%s force=%v", stats.BuildID, b.cfg.ContentDir, b.cfg.OutDir, b.force)

	catalog, err := content.LoadAll(ctx, b.cfg.ContentDir, b.reg)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	stats.ValidFiles, stats.InvalidFiles = catalog.TotalCounts()
	stats.Categories = b.reg.Len()

	for _, res := range catalog.Results() {
		for _, fe := range res.Invalid {
			log.Printf("build invalid file=%s err=%v", fe.Path, fe.Err)
		}
	}

	// Per-category artifacts fan out; each category is independent.
	anyChanged := false
	g, _ := errgroup.WithContext(ctx)
	written := make([]int, len(catalog.Results()))
	skipped := make([]bool, len(catalog.Results()))
	for i, res := range catalog.Results() {
		g.Go(func() error {
			n, skip, err := b.buildCategory(res)
			if err != nil {
				// Per-category failure: log and continue with the rest.
				log.Printf("build category=%s err=%v (skipping)", res.Category.ID, err)
				return nil
			}
			written[i] = n
			skipped[i] = skip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range written {
		stats.ArtifactsWritten += written[i]
		if skipped[i] {
			stats.SkippedCategories++
		} else {
			anyChanged = true
		}
	}

	// Cross-category artifacts depend on every category plus guides and the
	// site config, so they rebuild when any of those changed.
	crossDigest, guides, err := b.crossInputDigest()
	if err != nil {
		return nil, err
	}
	if b.force || anyChanged || b.cache.Changed("cross", crossDigest) {
		n, err := b.buildCrossArtifacts(catalog, guides, stats)
		if err != nil {
			return nil, err
		}
		stats.ArtifactsWritten += n
		b.cache.Set("cross", crossDigest, "")
	}

	if err := b.cache.Save(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	log.Printf("build done id=%s valid=%d invalid=%d written=%d skipped_categories=%d duration=%s",
		stats.BuildID, stats.ValidFiles, stats.InvalidFiles, stats.ArtifactsWritten, stats.SkippedCategories, stats.Duration.Round(time.Millisecond))
	return stats, nil
}

// buildCategory writes the generated TS modules and static API file for one
// category, unless its hash cache entry says nothing changed.
// Returns the number of files written and whether the category was skipped.
func (b *Builder) buildCategory(res *content.CategoryResult) (int, bool, error) {
	key := "category:" + res.Category.ID
	dir := filepath.Join(b.cfg.ContentDir, res.Category.ID)

	// Matching mtime/size stamp means the cached digest is still valid;
	// skip without reading file contents at all.
	if !b.force {
		stamp, err := StampDir(dir)
		if err != nil {
			return 0, false, err
		}
		if stamp == b.cache.Stamp(key) && b.cache.Digest(key) != "" {
			return 0, true, nil
		}
	}

	state, err := HashDir(dir)
	if err != nil {
		return 0, false, err
	}
	if !b.force && !b.cache.Changed(key, state.Digest) {
		// Contents unchanged but mtimes moved (a touch); refresh the
		// stamp so the next run takes the fast path again.
		b.cache.Set(key, state.Digest, state.Stamp)
		return 0, true, nil
	}

	metaTS, err := MetadataTS(res)
	if err != nil {
		return 0, false, err
	}
	fullTS, err := FullTS(res)
	if err != nil {
		return 0, false, err
	}
	apiJSON, err := CategoryAPIJSON(res)
	if err != nil {
		return 0, false, err
	}

	files := map[string][]byte{
		filepath.Join(b.cfg.OutDir, "generated", res.Category.ID+"-metadata.ts"):     metaTS,
		filepath.Join(b.cfg.OutDir, "generated", res.Category.ID+"-full.ts"):         fullTS,
		filepath.Join(b.cfg.OutDir, "public", "static-api", res.Category.ID+".json"): apiJSON,
	}
	n := 0
	for path, data := range files {
		if err := writeFileAtomic(path, data); err != nil {
			return n, false, err
		}
		n++
	}

	b.cache.Set(key, state.Digest, state.Stamp)
	valid, invalid := res.Counts()
	log.Printf("build category=%s valid=%d invalid=%d files=%d", res.Category.ID, valid, invalid, n)
	return n, false, nil
}

// categoryDigest returns the input digest for one category directory,
// reusing the cached digest when the mtime/size stamp still matches so
// unchanged directories are never re-read.
func (b *Builder) categoryDigest(id string) (string, error) {
	key := "category:" + id
	dir := filepath.Join(b.cfg.ContentDir, id)

	stamp, err := StampDir(dir)
	if err != nil {
		return "", err
	}
	if stamp == b.cache.Stamp(key) && b.cache.Digest(key) != "" {
		return b.cache.Digest(key), nil
	}
	state, err := HashDir(dir)
	if err != nil {
		return "", err
	}
	return state.Digest, nil
}

// crossInputDigest hashes everything the cross-category artifacts depend on:
// each category's digest, the guides directory, and the site config shape.
func (b *Builder) crossInputDigest() (string, []string, error) {
	parts := []string{b.cfg.BaseURL, b.cfg.Name}
	for _, id := range b.reg.IDs() {
		digest, err := b.categoryDigest(id)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, id, digest)
	}

	guideState, err := HashGuidesDir(b.cfg.GuidesDir)
	if err != nil {
		return "", nil, err
	}
	parts = append(parts, "guides", guideState.Digest)

	guides, err := GuideSlugs(b.cfg.GuidesDir)
	if err != nil {
		return "", nil, err
	}
	for _, col := range b.cfg.Collections {
		parts = append(parts, "collection", col.Slug, col.Title)
	}
	return HashStrings(parts...), guides, nil
}

// buildCrossArtifacts writes the rollup, search index, sitemap, robots,
// OpenAPI, events, changelog, and SEO collection artifacts.
func (b *Builder) buildCrossArtifacts(catalog *content.Catalog, guides []string, stats *Stats) (int, error) {
	n := 0
	write := func(path string, data []byte, err error) error {
		if err != nil {
			return err
		}
		if err := writeFileAtomic(path, data); err != nil {
			return err
		}
		n++
		return nil
	}
	pub := func(parts ...string) string {
		return filepath.Join(append([]string{b.cfg.OutDir, "public"}, parts...)...)
	}

	allJSON, err := AllConfigurationsJSON(catalog)
	if err := write(pub("static-api", "all-configurations.json"), allJSON, err); err != nil {
		return n, err
	}

	idxJSON, err := SearchIndexJSON(catalog)
	if err := write(pub("search-index.json"), idxJSON, err); err != nil {
		return n, err
	}

	smXML, err := SitemapXML(b.cfg, catalog, guides)
	if err := write(pub("sitemap.xml"), smXML, err); err != nil {
		return n, err
	}
	if err := write(pub("robots.txt"), RobotsTxt(b.cfg), nil); err != nil {
		return n, err
	}

	oaJSON, err := OpenAPIJSON(b.cfg, b.reg)
	if err := write(pub("openapi.json"), oaJSON, err); err != nil {
		return n, err
	}

	names, err := EventNames(b.reg)
	if err != nil {
		return n, err
	}
	if err := write(filepath.Join(b.cfg.OutDir, "generated", "events.ts"), EventsTS(names), nil); err != nil {
		return n, err
	}
	evJSON, err := EventsJSON(names)
	if err := write(pub("static-api", "events.json"), evJSON, err); err != nil {
		return n, err
	}

	cl := changelog.Load(b.cfg.ChangelogPath)
	clJSON, err := changelogJSON(cl)
	if err := write(pub("static-api", "changelog.json"), clJSON, err); err != nil {
		return n, err
	}

	for _, def := range b.cfg.Collections {
		page := BuildCollectionPage(def, catalog)
		if page == nil {
			stats.CollectionsEmpty++
			log.Printf("build collection=%s matched no items, no page emitted", def.Slug)
			continue
		}
		mdx, err := CollectionMDX(page, b.cfg)
		if err := write(filepath.Join(b.cfg.OutDir, "seo", "collections", page.Slug+".mdx"), mdx, err); err != nil {
			return n, err
		}
		stats.CollectionsBuilt++
	}

	return n, nil
}

// writeFileAtomic writes data to path via a temp file and rename so readers
// never observe a partial artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// changelogJSON marshals the parsed changelog for the static API.
func changelogJSON(cl *changelog.Changelog) ([]byte, error) {
	data, err := json.MarshalIndent(cl, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal changelog: %w", err)
	}
	return append(data, '\n'), nil
}
