package textutil

import (
	"strings"
	"unicode"
)

// unsafeNameRunes are rejected in names that become path segments.
const unsafeNameRunes = `/\:*?"<>|`

// IsSafeName reports whether name can be used verbatim as a single path
// segment of a corpus tree: corpus names, split suffixes and file extensions.
// Whitespace and control characters are rejected because the names also end
// up inside manifest file names read by the Sphinx tools.
func IsSafeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(unsafeNameRunes, r) {
			return false
		}
	}
	return true
}
