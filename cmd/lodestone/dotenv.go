// ABOUTME: .env file loader run once at CLI startup, before flag parsing.
// ABOUTME: Existing environment variables always win over file values.
package main

import (
	"bufio"
	"os"
	"strings"
)

// loadDotEnv applies KEY=VALUE pairs from path to the environment, skipping
// keys that are already set. A missing file is a no-op: most invocations
// run without one.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, value)
		}
	}
}

// parseEnvLine extracts one KEY=VALUE assignment. Blank lines, comments,
// and lines without '=' parse as not-ok. An "export " prefix and matched
// single or double quotes around the value are accepted and stripped.
func parseEnvLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), unquoteEnvValue(strings.TrimSpace(value)), true
}

// unquoteEnvValue strips one layer of matching quotes, if present.
func unquoteEnvValue(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if first == last && (first == '"' || first == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
