package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFileSlug keeps derived filenames well under filesystem limits.
const maxFileSlug = 100

var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks ("Homilía" to "Homilia").
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}

// slugify lowercases, strips diacritics and replaces every non
// alphanumeric run with sep.
func slugify(s string, sep rune) string {
	s = strings.ToLower(StripDiacritics(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteRune(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// Slug builds a hyphenated anchor slug for site sections.
func Slug(s string) string {
	return slugify(s, '-')
}

// FileSlug builds an underscore filename key, capped at 100 characters.
func FileSlug(s string) string {
	out := slugify(s, '_')
	if len(out) > maxFileSlug {
		out = strings.TrimRight(out[:maxFileSlug], "_")
	}
	return out
}

// AudioFilename derives the audio object key (without extension) for an
// episode from its date and title.
func AudioFilename(ep Episode) string {
	return FileSlug(ep.Date + " " + ep.Title)
}
