// ABOUTME: Tests for the CLI help output: subcommands, flags, and exit code documentation.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpListsSubcommands(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	if !strings.Contains(out, "lodestone 1.2.3") {
		t.Error("expected version in help header")
	}
	for _, cmd := range []string{"build", "serve", "browse", "mcp", "verify-titles", "readme"} {
		if !strings.Contains(out, "lodestone "+cmd) {
			t.Errorf("expected subcommand %q in help", cmd)
		}
	}
	for _, flag := range []string{"-config", "-content-dir", "-out-dir", "-force", "-watch", "-port", "-data-dir"} {
		if !strings.Contains(out, flag) {
			t.Errorf("expected flag %q in help", flag)
		}
	}
	if !strings.Contains(out, "Exit codes:") {
		t.Error("expected exit code documentation")
	}
}
