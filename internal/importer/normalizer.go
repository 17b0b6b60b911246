package importer

import (
	"regexp"
	"strings"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader canonicalizes one raw column name: lower-cased, trimmed,
// runs of non-alphanumeric characters collapsed to a single underscore,
// leading and trailing underscores stripped.
func NormalizeHeader(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = nonAlnumRuns.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// NormalizeRow canonicalizes every key of a raw row and trims every value.
// A missing value becomes the empty string, never null. When two raw keys
// collapse to the same normalized key the later non-empty value wins.
// Idempotent: normalizing an already normalized row is a no-op.
func NormalizeRow(row map[string]string) map[string]string {
	normalized := make(map[string]string, len(row))
	for key, value := range row {
		nk := NormalizeHeader(key)
		nv := strings.TrimSpace(value)
		if existing, ok := normalized[nk]; ok && nv == "" {
			normalized[nk] = existing
			continue
		}
		normalized[nk] = nv
	}
	return normalized
}
