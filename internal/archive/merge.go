package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"iglesia/internal/core"
	"iglesia/internal/logger"
)

var dateDigits = regexp.MustCompile(`\d{8}`)

// LoadLinks reads every links/{pope}/{lang}.json file under linksDir and
// returns one DocumentLink per (pope, language, url). Unreadable files
// are logged and skipped.
func LoadLinks(linksDir string) ([]core.DocumentLink, error) {
	popes, err := os.ReadDir(linksDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read links dir %s: %w", linksDir, err)
	}

	var links []core.DocumentLink
	for _, popeEntry := range popes {
		if !popeEntry.IsDir() {
			continue
		}
		pope := popeEntry.Name()
		files, err := os.ReadDir(filepath.Join(linksDir, pope))
		if err != nil {
			logger.Warn("could not read pope links dir", "pope", pope, "error", err.Error())
			continue
		}
		for _, f := range files {
			if !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			lang := strings.TrimSuffix(f.Name(), ".json")
			path := filepath.Join(linksDir, pope, f.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("could not read links file", "path", path, "error", err.Error())
				continue
			}
			var urls []string
			if err := json.Unmarshal(data, &urls); err != nil {
				logger.Warn("could not parse links file", "path", path, "error", err.Error())
				continue
			}
			for _, u := range urls {
				links = append(links, core.DocumentLink{Pope: pope, Language: lang, URL: u})
			}
		}
	}
	return links, nil
}

// Merge turns discovered links into document records with derived slug,
// type and date. Exactly one record is produced per (pope, language,
// url); duplicate URLs are dropped and slug collisions within a language
// are warned and resolved first-wins.
func Merge(links []core.DocumentLink) []core.DocumentRecord {
	seen := make(map[string]bool, len(links))
	slugSeen := make(map[string]string) // "lang/slug" -> url

	var records []core.DocumentRecord
	for _, l := range links {
		key := l.Pope + "|" + l.Language + "|" + l.URL
		if seen[key] {
			continue
		}
		seen[key] = true

		rec := core.DocumentRecord{
			Pope:     l.Pope,
			Language: l.Language,
			URL:      l.URL,
			Slug:     SlugFromURL(l.URL),
			Type:     typeFromURL(l.URL),
			Date:     DateFromSlug(SlugFromURL(l.URL)),
		}

		slugKey := rec.Language + "/" + rec.Slug
		if prev, ok := slugSeen[slugKey]; ok && prev != rec.URL {
			logger.Warn("slug collision, keeping first URL",
				"slug", rec.Slug, "lang", rec.Language, "kept", prev, "dropped", rec.URL)
			continue
		}
		slugSeen[slugKey] = rec.URL
		records = append(records, rec)
	}
	return records
}

// SlugFromURL derives a document's slug as the longest path segment of
// its URL, which on vatican.va is the document filename.
func SlugFromURL(u string) string {
	longest := ""
	for _, part := range strings.Split(u, "/") {
		if len(part) > len(longest) {
			longest = part
		}
	}
	return strings.TrimSuffix(longest, ".html")
}

// typeFromURL returns the document type path segment, the seventh
// segment of the URL (".../content/{pope}/{lang}/{type}/...").
func typeFromURL(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) > 6 {
		return parts[6]
	}
	return ""
}

// DateFromSlug extracts a YYYY-MM-DD date from the first 8-digit run in
// a slug. Runs starting with a 19/20 century are read as YYYYMMDD, runs
// ending in one as DDMMYYYY; anything else yields an empty string.
func DateFromSlug(slug string) string {
	digits := dateDigits.FindString(slug)
	if digits == "" {
		return ""
	}
	var t time.Time
	var err error
	switch {
	case strings.HasPrefix(digits[:4], "19") || strings.HasPrefix(digits[:4], "20"):
		t, err = time.Parse("20060102", digits)
	case strings.HasPrefix(digits[4:], "19") || strings.HasPrefix(digits[4:], "20"):
		t, err = time.Parse("02012006", digits)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// WriteCSV persists the flat record table as all_links.csv.
func WriteCSV(records []core.DocumentRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"pope", "lang", "link", "title", "type", "date"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write([]string{r.Pope, r.Language, r.URL, r.Slug, r.Type, r.Date}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WritePivotCSV persists one row per document (pope, type, slug, date)
// with one URL column per language, sorted by date ascending.
func WritePivotCSV(records []core.DocumentRecord, path string) error {
	type docKey struct {
		Pope, Type, Slug, Date string
	}
	langs := make(map[string]bool)
	byDoc := make(map[docKey]map[string]string)
	for _, r := range records {
		langs[r.Language] = true
		k := docKey{r.Pope, r.Type, stripLangSuffix(r.Slug, r.Language), r.Date}
		if byDoc[k] == nil {
			byDoc[k] = make(map[string]string)
		}
		if _, ok := byDoc[k][r.Language]; !ok {
			byDoc[k][r.Language] = r.URL
		}
	}

	langList := make([]string, 0, len(langs))
	for l := range langs {
		langList = append(langList, l)
	}
	sort.Strings(langList)

	keys := make([]docKey, 0, len(byDoc))
	for k := range byDoc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].Slug < keys[j].Slug
	})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"pope", "type", "title", "date"}, langList...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, k := range keys {
		row := []string{k.Pope, k.Type, k.Slug, k.Date}
		for _, l := range langList {
			row = append(row, byDoc[k][l])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// stripLangSuffix removes a trailing language marker from a slug so the
// same document pivots onto one row across languages. Vatican slugs end
// in the document id, which is language-invariant, so this is usually a
// no-op; kept for slugs that embed the language code.
func stripLangSuffix(slug, lang string) string {
	return strings.TrimSuffix(slug, "-"+lang)
}
