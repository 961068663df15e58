// ABOUTME: Tests for the .env loader: parsing, quoting, comments, and the no-clobber rule.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadDotEnvBasic(t *testing.T) {
	path := writeEnvFile(t, `
# comment line
LODESTONE_TEST_A=plain
LODESTONE_TEST_B="double quoted"
LODESTONE_TEST_C='single quoted'
export LODESTONE_TEST_D=exported
LODESTONE_TEST_E=has=equals
`)
	for _, k := range []string{"LODESTONE_TEST_A", "LODESTONE_TEST_B", "LODESTONE_TEST_C", "LODESTONE_TEST_D", "LODESTONE_TEST_E"} {
		os.Unsetenv(k)
		t.Cleanup(func() { os.Unsetenv(k) })
	}

	loadDotEnv(path)

	tests := map[string]string{
		"LODESTONE_TEST_A": "plain",
		"LODESTONE_TEST_B": "double quoted",
		"LODESTONE_TEST_C": "single quoted",
		"LODESTONE_TEST_D": "exported",
		"LODESTONE_TEST_E": "has=equals",
	}
	for k, want := range tests {
		if got := os.Getenv(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestLoadDotEnvDoesNotClobber(t *testing.T) {
	path := writeEnvFile(t, "LODESTONE_TEST_KEEP=from_file\n")
	t.Setenv("LODESTONE_TEST_KEEP", "from_env")

	loadDotEnv(path)

	if got := os.Getenv("LODESTONE_TEST_KEEP"); got != "from_env" {
		t.Errorf("expected existing value kept, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	// Must be a no-op, not a panic.
	loadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line      string
		key, want string
		ok        bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"  KEY = value ", "KEY", "value", true},
		{`KEY="quoted"`, "KEY", "quoted", true},
		{"export KEY=x", "KEY", "x", true},
		{`KEY="mismatched'`, "KEY", `"mismatched'`, true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no equals here", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := parseEnvLine(tc.line)
		if ok != tc.ok || key != tc.key || value != tc.want {
			t.Errorf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.line, key, value, ok, tc.key, tc.want, tc.ok)
		}
	}
}
