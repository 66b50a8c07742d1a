// Package strings provides small string-slice helpers used by configuration
// parsing.
package strings

import (
	"strings"
)

// DedupeAndTrimLower trims whitespace, lowercases, and removes duplicates and
// empty strings from a slice. Order of first occurrence is preserved. Used to
// normalize comma-separated env lists like CATALOG_SYNC_KINDS.
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
