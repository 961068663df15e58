// ABOUTME: Template loading, rendering, and FuncMap for the directory server's HTML pages.
// ABOUTME: Provides TemplateRenderer that parses base + partials from an fs.FS and renders named templates.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
)

// TemplateRenderer loads and renders HTML templates for the directory site.
// Templates are parsed once at construction and reused for each request.
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses all templates from the given filesystem.
// It expects page templates at the root and shared partials under partials/.
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	tmpl := template.New("pages").Funcs(buildFuncMap())

	tmpl, err := tmpl.ParseFS(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	if partials, _ := fs.Glob(fsys, "partials/*.html"); len(partials) > 0 {
		tmpl, err = tmpl.ParseFS(fsys, "partials/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse partial templates: %w", err)
		}
	}

	return &TemplateRenderer{templates: tmpl}, nil
}

// Render executes a named template into a byte slice.
func (r *TemplateRenderer) Render(templateName string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

// buildFuncMap creates the template FuncMap with helper functions.
func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownToHTML,
		"truncate": truncate,
		"join":     strings.Join,
	}
}

// markdownToHTML converts a markdown string to HTML using goldmark.
// On conversion failure the input is returned escaped rather than dropped.
func markdownToHTML(input string) template.HTML {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	return template.HTML(buf.String())
}

// RenderMarkdown is an exported helper that converts markdown to HTML.
func RenderMarkdown(input string) string {
	return string(markdownToHTML(input))
}

// truncate shortens a string to max characters, appending an ellipsis.
// Counts runes so multibyte text is never cut mid-sequence.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
