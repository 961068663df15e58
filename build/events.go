// ABOUTME: Generates the analytics event taxonomy: category × action names plus global events.
// ABOUTME: Emits generated/events.ts and public/static-api/events.json; names are validated snake_case.
package build

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/2389-research/lodestone/content"
)

// itemActions are the per-category interactions the UI reports.
var itemActions = []string{"view", "copy", "deploy", "search", "filter", "share"}

// globalEvents are site-wide events not tied to a category.
var globalEvents = []string{
	"page_view",
	"theme_toggle",
	"newsletter_signup",
	"feedback_submit",
	"outbound_click",
}

// eventNamePattern is the allowed event-name shape: lowercase snake_case.
var eventNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)

// EventNames produces the full ordered event taxonomy for the registry.
// It errors on any name that is not snake_case or not unique — a generated
// taxonomy with collisions would silently merge analytics streams.
func EventNames(reg *content.Registry) ([]string, error) {
	var names []string
	seen := make(map[string]bool)

	add := func(name string) error {
		if !eventNamePattern.MatchString(name) {
			return fmt.Errorf("event name %q is not snake_case", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate event name %q", name)
		}
		seen[name] = true
		names = append(names, name)
		return nil
	}

	for _, cat := range reg.All() {
		noun := EventNoun(cat.ID)
		for _, action := range itemActions {
			if err := add(noun + "_" + action); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range globalEvents {
		if err := add(g); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// EventNoun converts a category ID to the singular snake_case noun used in
// event names: "agents" -> "agent", "mcp" -> "mcp", "status-lines" ->
// "status_line".
func EventNoun(categoryID string) string {
	noun := strings.ReplaceAll(categoryID, "-", "_")
	// Naive singularization is enough for the category vocabulary in use.
	if strings.HasSuffix(noun, "s") && noun != "mcp" {
		noun = strings.TrimSuffix(noun, "s")
	}
	return noun
}

// EventsTS renders generated/events.ts: a const object mapping SCREAMING
// constant keys to event name strings.
func EventsTS(names []string) []byte {
	var sb strings.Builder
	sb.WriteString(tsHeader)
	sb.WriteString("\nexport const EVENTS = {\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %q,\n", strings.ToUpper(name), name)
	}
	sb.WriteString("} as const;\n\nexport type EventName = (typeof EVENTS)[keyof typeof EVENTS];\n")
	return []byte(sb.String())
}

// EventsJSON renders public/static-api/events.json.
func EventsJSON(names []string) ([]byte, error) {
	doc := map[string]any{
		"count":  len(names),
		"events": names,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal events: %w", err)
	}
	return append(data, '\n'), nil
}
