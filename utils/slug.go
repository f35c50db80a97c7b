package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// whitespace is the set of space characters slugs are split on. It must not
// change: existing slugs in the store were derived with exactly this set.
const whitespace = `\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}`

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9` + whitespace + `-]`)
	slugSeparators = regexp.MustCompile(`[` + whitespace + `_-]+`)
	slugEdges      = regexp.MustCompile(`^-+|-+$`)
)

// Slugify turns a title into a lower-case, hyphenated, URL-safe identifier
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = strings.TrimFunc(slug, isSlugSpace)
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return slugEdges.ReplaceAllString(slug, "")
}

// isSlugSpace is the trim counterpart of whitespace
func isSlugSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\ufeff':
		return true
	}
	return unicode.IsSpace(r)
}
