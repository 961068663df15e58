// ABOUTME: Emits generated TypeScript modules per category: a trimmed metadata array and full records.
// ABOUTME: Output is deterministic — items sorted by slug, stable JSON field order, no timestamps.
package build

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/2389-research/lodestone/content"
)

// tsHeader prefixes every generated TypeScript module.
const tsHeader = "// AUTO-GENERATED by lodestone build — do not edit by hand.\n"

// MetadataTS renders the generated/<category>-metadata.ts module for the
// given category result.
func MetadataTS(res *content.CategoryResult) ([]byte, error) {
	metas := make([]content.Metadata, len(res.Items))
	for i, it := range res.Items {
		metas[i] = it.Meta()
	}
	body, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s metadata: %w", res.Category.ID, err)
	}
	return tsModule(res.Category.ID, "Metadata", body), nil
}

// FullTS renders the generated/<category>-full.ts module with complete
// content records for detail views.
func FullTS(res *content.CategoryResult) ([]byte, error) {
	body, err := json.MarshalIndent(res.Items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s full content: %w", res.Category.ID, err)
	}
	return tsModule(res.Category.ID, "Full", body), nil
}

// tsModule assembles a TS module exporting one const array.
func tsModule(categoryID, suffix string, jsonBody []byte) []byte {
	var sb strings.Builder
	sb.WriteString(tsHeader)
	fmt.Fprintf(&sb, "// Source: content/%s/*.json\n\n", categoryID)
	fmt.Fprintf(&sb, "export const %s%s = ", ExportName(categoryID), suffix)
	sb.Write(jsonBody)
	sb.WriteString(" as const;\n")
	return []byte(sb.String())
}

// ExportName converts a category ID to the camelCase identifier used for its
// TS exports: "mcp" -> "mcp", "status-lines" -> "statusLines".
func ExportName(categoryID string) string {
	parts := strings.Split(categoryID, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
