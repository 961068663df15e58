// ABOUTME: Schema validation for content items: slug shape, required fields, tag and date rules.
// ABOUTME: Collects all violations for a file into one error so authors see every problem at once.
package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLen is the upper bound on description length in characters.
const MaxDescriptionLen = 500

// slugPattern matches lowercase kebab-case identifiers: letters/digits
// separated by single hyphens, no leading or trailing hyphen.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a well-formed content slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// ValidateItem checks an item against the content schema. It returns a single
// error joining every violation found, or nil when the item is valid.
// The item's Category must already be set by the loader.
func ValidateItem(it *Item) error {
	var errs []error

	if it.Slug == "" {
		errs = append(errs, fmt.Errorf("slug is required"))
	} else if !ValidSlug(it.Slug) {
		errs = append(errs, fmt.Errorf("slug %q is not lowercase kebab-case", it.Slug))
	}

	if it.Category == "" {
		errs = append(errs, fmt.Errorf("category is required"))
	}

	if strings.TrimSpace(it.Description) == "" {
		errs = append(errs, fmt.Errorf("description is required"))
	} else if n := utf8.RuneCountInString(it.Description); n > MaxDescriptionLen {
		errs = append(errs, fmt.Errorf("description is %d chars, max %d", n, MaxDescriptionLen))
	}

	if it.DateAdded != "" {
		if _, err := time.Parse("2006-01-02", it.DateAdded); err != nil {
			errs = append(errs, fmt.Errorf("dateAdded %q is not YYYY-MM-DD", it.DateAdded))
		}
	}

	seen := make(map[string]bool, len(it.Tags))
	for _, tag := range it.Tags {
		if tag != strings.ToLower(tag) {
			errs = append(errs, fmt.Errorf("tag %q must be lowercase", tag))
		}
		if seen[tag] {
			errs = append(errs, fmt.Errorf("duplicate tag %q", tag))
		}
		seen[tag] = true
	}

	return errors.Join(errs...)
}
