package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes name safe to use as a single path component.
// Path separators, colons and asterisks become dashes; quotes, wildcards,
// redirection characters and control characters are dropped. Leading dots
// are stripped so the result is never hidden or a relative path element.
func SanitizeFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '-'
		case '?', '"', '<', '>', '|':
			return -1
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(cleaned), "."))
}
