// Package fetch downloads document pages from vatican.va and extracts
// their main text.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iglesia/internal/core"
)

var urlDate = regexp.MustCompile(`/(\d{8})-`)

// Extractor fetches document pages and pulls the homily text out of the
// page's testo container.
type Extractor struct {
	client *http.Client
}

// NewExtractor returns an Extractor with the given HTTP timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{client: &http.Client{Timeout: timeout}}
}

// Extract fetches a document record's page and returns the episode with
// its raw text populated. A missing text container is a per-item error;
// callers log and continue with the next document.
func (e *Extractor) Extract(ctx context.Context, rec core.DocumentRecord, title string) (core.Episode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.URL, nil)
	if err != nil {
		return core.Episode{}, fmt.Errorf("failed to create request for %s: %w", rec.URL, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return core.Episode{}, fmt.Errorf("failed to fetch %s: %w", rec.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Episode{}, fmt.Errorf("fetch %s: status %d", rec.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return core.Episode{}, fmt.Errorf("failed to parse %s: %w", rec.URL, err)
	}

	text, err := DocumentText(doc)
	if err != nil {
		return core.Episode{}, fmt.Errorf("%s: %w", rec.URL, err)
	}

	date := rec.Date
	if date == "" {
		date = DateFromURL(rec.URL)
	}

	return core.Episode{
		Title:    title,
		Date:     date,
		Language: rec.Language,
		URL:      rec.URL,
		Slug:     rec.Slug,
		Type:     core.DocTypeFromPath(rec.Type).Display(),
		Text:     text,
	}, nil
}

// DocumentText extracts the paragraphs under div.testo div.text, joined
// by newlines. Vatican document pages keep the spoken text there.
func DocumentText(doc *goquery.Document) (string, error) {
	testo := doc.Find("div.testo")
	if testo.Length() == 0 {
		return "", fmt.Errorf("no testo container in document")
	}

	var paragraphs []string
	testo.Find("div.text p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			paragraphs = append(paragraphs, t)
		}
	})
	if len(paragraphs) == 0 {
		return "", fmt.Errorf("testo container holds no paragraphs")
	}
	return strings.Join(paragraphs, "\n"), nil
}

// DateFromURL extracts a YYYY-MM-DD date from the /YYYYMMDD- run in a
// document URL, or an empty string.
func DateFromURL(u string) string {
	m := urlDate.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	t, err := time.Parse("20060102", m[1])
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
