// ABOUTME: Embedded filesystem for the directory server's HTML templates.
// ABOUTME: Exports TemplatesFS so the server needs no runtime filesystem paths for its UI.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html templates/partials/*.html
var templatesEmbed embed.FS

// TemplatesFS returns the embedded template tree rooted at templates/.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templatesEmbed, "templates")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
