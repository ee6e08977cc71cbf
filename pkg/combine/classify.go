package combine

import (
	"path/filepath"
	"slices"
	"strings"
)

// Extension returns the file extension of path without the leading dot.
// The comparison used by buckets is case sensitive.
func Extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Accepts reports whether path passes the extension whitelist.
func Accepts(path string, extensions []string) bool {
	return len(extensions) == 0 || slices.Contains(extensions, Extension(path))
}

// Classify returns the files accepted by the whitelist, preserving order.
func Classify(files []string, extensions []string) []string {
	var matched []string
	for _, f := range files {
		if Accepts(f, extensions) {
			matched = append(matched, f)
		}
	}
	return matched
}
