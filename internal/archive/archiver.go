// Package archive crawls vatican.va index pages, discovers document
// links per pope and language, and merges them into flat records.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"iglesia/internal/config"
	"iglesia/internal/logger"
)

const (
	userAgent  = "IglesiaArchiverBot/1.0"
	maxRetries = 5
)

// Archiver discovers and persists document links. Fetched pages are
// cached on disk so re-runs do not hammer the source site.
type Archiver struct {
	baseURL      string
	cacheDir     string
	linksDir     string
	minDelay     time.Duration
	maxDelay     time.Duration
	forceRefresh bool
	client       *http.Client
	rng          *rand.Rand
	retryDelay   time.Duration
}

// New builds an Archiver from scraper configuration. When forceRefresh
// is set the disk cache is bypassed and every page is re-downloaded.
func New(cfg config.Scraper, forceRefresh bool) *Archiver {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Archiver{
		baseURL:      cfg.BaseURL,
		cacheDir:     cfg.CacheDir,
		linksDir:     cfg.LinksDir,
		minDelay:     time.Duration(cfg.MinDelaySecs * float64(time.Second)),
		maxDelay:     time.Duration(cfg.MaxDelaySecs * float64(time.Second)),
		forceRefresh: forceRefresh,
		client:       &http.Client{Timeout: timeout},
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		retryDelay:   time.Second,
	}
}

// safeFilename converts a URL into a cache-safe filename.
func safeFilename(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	return strings.ReplaceAll(u, "/", "_")
}

// throttle sleeps a random interval inside the configured delay range.
func (a *Archiver) throttle() {
	if a.maxDelay <= a.minDelay {
		time.Sleep(a.minDelay)
		return
	}
	span := a.maxDelay - a.minDelay
	time.Sleep(a.minDelay + time.Duration(a.rng.Int63n(int64(span))))
}

// fetch downloads a URL with retries on 5xx responses.
func (a *Archiver) fetch(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff mirrors the crawl's gentle pacing.
			time.Sleep(time.Duration(attempt) * a.retryDelay)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request for %s: %w", pageURL, err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error %d for %s", resp.StatusCode, pageURL)
			continue
		case resp.StatusCode != http.StatusOK:
			return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
		case readErr != nil:
			lastErr = readErr
			continue
		}
		return string(body), nil
	}
	return "", fmt.Errorf("failed to fetch %s after %d attempts: %w", pageURL, maxRetries, lastErr)
}

// cachedPage returns a page from the disk cache, downloading it (with
// throttling) on a miss.
func (a *Archiver) cachedPage(ctx context.Context, pageURL, pope, lang string) (string, error) {
	dir := filepath.Join(a.cacheDir, pope, lang)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, safeFilename(pageURL)+".html")

	if !a.forceRefresh {
		if data, err := os.ReadFile(path); err == nil {
			return string(data), nil
		}
	}

	a.throttle()
	html, err := a.fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		logger.Warn("could not write cache file", "path", path, "error", err.Error())
	}
	return html, nil
}

// mainPageURL builds the landing page URL for a pope and language.
func (a *Archiver) mainPageURL(pope, lang string) string {
	base, err := url.Parse(a.baseURL)
	if err != nil {
		return a.baseURL
	}
	ref, _ := url.Parse(fmt.Sprintf("content/%s/%s.html", pope, lang))
	return base.ResolveReference(ref).String()
}

// contentSelection narrows a document to its main content area, falling
// back to the whole body when the known containers are absent.
func contentSelection(doc *goquery.Document) *goquery.Selection {
	if sel := doc.Find("div.document-container"); sel.Length() > 0 {
		return sel
	}
	if sel := doc.Find("div#main-container"); sel.Length() > 0 {
		return sel
	}
	return doc.Find("body")
}

// indexPages collects the index/category page URLs linked from a pope's
// main page.
func (a *Archiver) indexPages(ctx context.Context, pope, lang string) (map[string]bool, error) {
	mainURL := a.mainPageURL(pope, lang)
	html, err := a.cachedPage(ctx, mainURL, pope, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load main page for %s [%s]: %w", pope, lang, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse main page for %s [%s]: %w", pope, lang, err)
	}

	pages := make(map[string]bool)
	base, _ := url.Parse(mainURL)
	contentSelection(doc).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, pope) || !strings.Contains(href, ".html") {
			return
		}
		if strings.HasPrefix(href, "http") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript") {
			return
		}
		if ref, err := url.Parse(href); err == nil {
			pages[base.ResolveReference(ref).String()] = true
		}
	})
	return pages, nil
}

// documentLinks extracts final document URLs from one index page. Only
// links under the index's own /documents prefix count.
func (a *Archiver) documentLinks(ctx context.Context, indexURL, pope, lang string) map[string]bool {
	fullSlug := pope + "/" + lang
	html, err := a.cachedPage(ctx, indexURL, pope, lang)
	if err != nil {
		logger.Warn("could not access index page", "url", indexURL, "error", err.Error())
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("could not parse index page", "url", indexURL, "error", err.Error())
		return nil
	}

	prefix := strings.Replace(indexURL, ".index.html", "", 1) + "/documents"
	idx := strings.Index(prefix, fullSlug)
	if idx < 0 {
		logger.Warn("index URL outside pope scope", "url", indexURL)
		return nil
	}
	prefix = prefix[idx+len(fullSlug):]

	links := make(map[string]bool)
	base, _ := url.Parse(a.mainPageURL(pope, lang))
	contentSelection(doc).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.Contains(href, fullSlug) || !strings.Contains(href, prefix) || !strings.Contains(href, ".html") {
			return
		}
		if strings.HasPrefix(href, "http") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript") {
			return
		}
		if ref, err := url.Parse(href); err == nil {
			links[base.ResolveReference(ref).String()] = true
		}
	})
	return links
}

// AllDocuments discovers every document URL for a pope and language,
// sorted for stable output.
func (a *Archiver) AllDocuments(ctx context.Context, pope, lang string) ([]string, error) {
	indexes, err := a.indexPages(ctx, pope, lang)
	if err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		logger.Warn("no index pages found", "pope", pope, "lang", lang)
		return nil, nil
	}

	all := make(map[string]bool)
	for indexURL := range indexes {
		for u := range a.documentLinks(ctx, indexURL, pope, lang) {
			all[u] = true
		}
	}

	urls := make([]string, 0, len(all))
	for u := range all {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	logger.Info("documents discovered", "pope", pope, "lang", lang, "count", len(urls))
	return urls, nil
}

// FindAndSaveLinks discovers links for each language and persists them
// as per-language JSON arrays under links/{pope}/{lang}.json.
func (a *Archiver) FindAndSaveLinks(ctx context.Context, pope string, languages []string) (map[string][]string, error) {
	dir := filepath.Join(a.linksDir, pope)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create links dir %s: %w", dir, err)
	}

	found := make(map[string][]string, len(languages))
	for _, lang := range languages {
		urls, err := a.AllDocuments(ctx, pope, lang)
		if err != nil {
			logger.Error("link discovery failed", err, "pope", pope, "lang", lang)
			continue
		}
		found[lang] = urls

		data, err := json.MarshalIndent(urls, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode links for %s: %w", lang, err)
		}
		path := filepath.Join(dir, lang+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		logger.Info("links saved", "pope", pope, "lang", lang, "count", len(urls), "path", path)
	}
	return found, nil
}
