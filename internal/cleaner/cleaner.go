// Package cleaner trims boilerplate from raw document text before audio
// synthesis and enrichment.
package cleaner

import (
	"regexp"
	"strings"
)

var (
	// The spoken part opens with a greeting; everything before it is
	// page furniture (headings, place, date, multimedia links).
	greeting = regexp.MustCompile(`(?is)(queridos.*)`)

	// Parenthesised spans are stage directions and citations.
	parens     = regexp.MustCompile(`\([^)]*\)`)
	underscore = regexp.MustCompile(`_`)
	spaces     = regexp.MustCompile(`\s+`)

	// The closing greetings to pilgrim groups are not read aloud.
	tail = regexp.MustCompile(`(?i)Saludos|Después del Ángelus`)
)

// Clean applies the start-phrase heuristic and the cut rules: drop
// everything before the greeting, strip parenthesised spans and
// underscores, collapse whitespace, and cut at the closing greetings.
func Clean(text string) string {
	if m := greeting.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = parens.ReplaceAllString(text, "")
	text = underscore.ReplaceAllString(text, "")
	text = spaces.ReplaceAllString(text, " ")
	if loc := tail.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}
