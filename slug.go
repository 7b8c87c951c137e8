package kargopress

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// turkishASCII maps Turkish letters to ASCII before lowercasing, so that
// slugs stay stable for titles like "Dijital Dönüşüm ve Lojistik".
var turkishASCII = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ö", "o", "Ö", "O",
	"ç", "c", "Ç", "C",
)

var (
	reSlugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSlugSpaces  = regexp.MustCompile(`\s+`)
	reSlugHyphens = regexp.MustCompile(`-+`)
)

// GenerateSlug converts a title into a URL-safe slug. The transform order
// (Turkish-to-ASCII map, lowercase, strip, collapse whitespace to hyphens,
// collapse hyphen runs, trim) is fixed because published URLs depend on it.
// An empty title, or a title that normalizes to nothing, yields a fresh
// random token instead; a slug is never empty. Uniqueness against existing
// slugs is not checked.
func GenerateSlug(title string) string {
	if title == "" {
		return uuid.NewString()
	}
	s := turkishASCII.Replace(title)
	s = strings.ToLower(s)
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reSlugSpaces.ReplaceAllString(s, "-")
	s = reSlugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return uuid.NewString()
	}
	return s
}
