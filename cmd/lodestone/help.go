// ABOUTME: Help display for the lodestone CLI with grouped subcommands, flags, and examples.
// ABOUTME: Provides printHelp for the top-level usage output shared by -h and unknown commands.
package main

import (
	"fmt"
	"io"
)

// printHelp writes the top-level usage message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "lodestone %s — content directory build pipeline and server\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lodestone build [flags]             Build generated artifacts from content JSON")
	fmt.Fprintln(w, "  lodestone serve [flags]             Serve the directory site over HTTP")
	fmt.Fprintln(w, "  lodestone browse [flags]            Browse the directory in the terminal")
	fmt.Fprintln(w, "  lodestone mcp [flags]               Serve the directory over MCP (stdio)")
	fmt.Fprintln(w, "  lodestone verify-titles [flags]     Check generated page titles fit in 60 chars")
	fmt.Fprintln(w, "  lodestone readme <category>/<slug>  Generate a README via the hosted backend")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Common Flags:")
	fmt.Fprintln(w, "  -config <file>        Site config file (default: lodestone.yaml)")
	fmt.Fprintln(w, "  -content-dir <dir>    Content root override")
	fmt.Fprintln(w, "  -out-dir <dir>        Output root override")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Build Flags:")
	fmt.Fprintln(w, "  -force                Rebuild everything, ignoring the hash cache")
	fmt.Fprintln(w, "  -watch                Rebuild on content changes until interrupted")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Serve Flags:")
	fmt.Fprintln(w, "  -port <n>             HTTP port (default: 8799)")
	fmt.Fprintln(w, "  -data-dir <dir>       Directory for the view-count database (default: .lodestone)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  lodestone build")
	fmt.Fprintln(w, "  lodestone build -watch")
	fmt.Fprintln(w, "  lodestone serve -port 8080")
	fmt.Fprintln(w, "  lodestone readme agents/code-reviewer")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Exit codes: 0 success, 1 failure, 2 usage error.")
}
