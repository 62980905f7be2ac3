package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen. Non-ASCII letters are kept as-is since
// Postgres handles unicode slugs fine.
func Slugify(s string) string {
	var b strings.Builder
	prevHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
