// Package wordcloud computes word frequencies for the weekly word
// cloud shown on the site.
package wordcloud

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Entry is one weighted word.
type Entry struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
}

// spanish stopwords; articles, prepositions, pronouns and the liturgical
// boilerplate that would otherwise dominate every cloud.
var stopwords = map[string]bool{
	"a": true, "al": true, "ante": true, "aquel": true, "aquella": true,
	"as": true, "asi": true, "así": true, "como": true, "con": true,
	"contra": true, "cual": true, "cuando": true, "de": true, "del": true,
	"desde": true, "donde": true, "durante": true, "e": true, "el": true,
	"ella": true, "ellas": true, "ellos": true, "en": true, "entre": true,
	"era": true, "es": true, "esa": true, "ese": true, "esta": true,
	"está": true, "están": true, "este": true, "esto": true, "estos": true,
	"fue": true, "ha": true, "han": true, "hay": true, "hemos": true,
	"hoy": true, "la": true, "las": true, "le": true, "les": true,
	"lo": true, "los": true, "más": true, "mas": true, "me": true,
	"mi": true, "muy": true, "nos": true, "nosotros": true, "nuestra": true,
	"nuestro": true, "o": true, "os": true, "otra": true, "otro": true,
	"para": true, "pero": true, "por": true, "porque": true, "que": true,
	"qué": true, "queridos": true, "se": true, "sea": true, "ser": true,
	"si": true, "sí": true, "sin": true, "sobre": true, "son": true,
	"su": true, "sus": true, "también": true, "tan": true, "te": true,
	"tiene": true, "todo": true, "todos": true, "tu": true, "un": true,
	"una": true, "uno": true, "y": true, "ya": true, "yo": true,
}

var wordPattern = regexp.MustCompile(`[\p{L}]+`)

// Frequencies counts non-stopword occurrences, lowercased, keeping the
// top most frequent words. Words shorter than three letters are noise.
func Frequencies(text string, top int) []Entry {
	counts := make(map[string]int)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len([]rune(w)) < 3 || stopwords[w] {
			continue
		}
		counts[w]++
	}

	entries := make([]Entry, 0, len(counts))
	for w, n := range counts {
		entries = append(entries, Entry{Text: w, Weight: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].Text < entries[j].Text
	})
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	return entries
}

// Write persists the entries as the JSON file the site embeds.
func Write(path string, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode word cloud: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
