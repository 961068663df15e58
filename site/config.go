// ABOUTME: Site configuration loaded from lodestone.yaml: identity, directories, categories, collections.
// ABOUTME: Every field has a default; a missing config file yields the built-in configuration.
package site

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/lodestone/content"
)

// CategoryConfig defines one content category in the site config.
type CategoryConfig struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// CollectionConfig defines one SEO collection page: a titled, tag-filtered
// slice of the directory rendered as a long-form MDX page.
type CollectionConfig struct {
	Slug        string   `yaml:"slug"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Categories  []string `yaml:"categories"`
}

// GenerationConfig points at the hosted edge functions used for package and
// README generation. The token itself comes from the environment, never the
// config file.
type GenerationConfig struct {
	BaseURL  string `yaml:"base_url"`
	TokenEnv string `yaml:"token_env"`
}

// Config is the full site configuration.
type Config struct {
	Name         string             `yaml:"name"`
	BaseURL      string             `yaml:"base_url"`
	TitleSuffix  string             `yaml:"title_suffix"`
	ContentDir   string             `yaml:"content_dir"`
	OutDir       string             `yaml:"out_dir"`
	GuidesDir    string             `yaml:"guides_dir"`
	ChangelogPath string            `yaml:"changelog_path"`
	StaticRoutes []string           `yaml:"static_routes"`
	Categories   []CategoryConfig   `yaml:"categories"`
	Collections  []CollectionConfig `yaml:"collections"`
	Generation   GenerationConfig   `yaml:"generation"`
}

// Default returns the built-in configuration used when no config file exists.
func Default() Config {
	cfg := Config{
		Name:          "Lodestone Directory",
		BaseURL:       "https://lodestone.example.com",
		ContentDir:    "content",
		OutDir:        ".",
		GuidesDir:     "guides",
		ChangelogPath: "CHANGELOG.md",
		StaticRoutes:  []string{"/", "/trending", "/community", "/submit", "/changelog"},
		Generation: GenerationConfig{
			TokenEnv: "LODESTONE_GENERATION_TOKEN",
		},
	}
	for _, c := range content.DefaultCategories() {
		cfg.Categories = append(cfg.Categories, CategoryConfig{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
		})
	}
	return cfg
}

// Load reads a config file and overlays it on the defaults. A missing file
// is not an error: the defaults are returned as-is. A malformed file is an
// error — silently ignoring a typo'd config would be worse than failing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	// Unmarshal over the defaults so omitted fields keep their values.
	// Categories are the exception: an explicit list replaces the default set.
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg = merge(cfg, file)

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays non-zero fields from file onto base.
func merge(base, file Config) Config {
	out := base
	if file.Name != "" {
		out.Name = file.Name
	}
	if file.BaseURL != "" {
		out.BaseURL = file.BaseURL
	}
	if file.TitleSuffix != "" {
		out.TitleSuffix = file.TitleSuffix
	}
	if file.ContentDir != "" {
		out.ContentDir = file.ContentDir
	}
	if file.OutDir != "" {
		out.OutDir = file.OutDir
	}
	if file.GuidesDir != "" {
		out.GuidesDir = file.GuidesDir
	}
	if file.ChangelogPath != "" {
		out.ChangelogPath = file.ChangelogPath
	}
	if len(file.StaticRoutes) > 0 {
		out.StaticRoutes = file.StaticRoutes
	}
	if len(file.Categories) > 0 {
		out.Categories = file.Categories
	}
	if len(file.Collections) > 0 {
		out.Collections = file.Collections
	}
	if file.Generation.BaseURL != "" {
		out.Generation.BaseURL = file.Generation.BaseURL
	}
	if file.Generation.TokenEnv != "" {
		out.Generation.TokenEnv = file.Generation.TokenEnv
	}
	return out
}

// validate checks constraints that the registry and generators rely on.
func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("site name must not be empty")
	}
	for _, col := range c.Collections {
		if col.Slug == "" || !content.ValidSlug(col.Slug) {
			return fmt.Errorf("collection slug %q is not lowercase kebab-case", col.Slug)
		}
		if col.Title == "" {
			return fmt.Errorf("collection %q has no title", col.Slug)
		}
	}
	return nil
}

// TitleFor appends the site title suffix to a page title.
func (c Config) TitleFor(title string) string {
	suffix := c.TitleSuffix
	if suffix == "" {
		suffix = " | " + c.Name
	}
	return title + suffix
}

// Registry builds the content category registry from the config.
func (c Config) Registry() (*content.Registry, error) {
	cats := make([]content.Category, len(c.Categories))
	for i, cc := range c.Categories {
		title := cc.Title
		if title == "" {
			title = content.Titleize(cc.ID)
		}
		cats[i] = content.Category{ID: cc.ID, Title: title, Description: cc.Description}
	}
	return content.NewRegistry(cats)
}
