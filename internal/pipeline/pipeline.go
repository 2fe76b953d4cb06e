// Package pipeline wires the dated ingestion flow: discovered links in,
// cleaned episodes out.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"iglesia/internal/archive"
	"iglesia/internal/cleaner"
	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/fetch"
	"iglesia/internal/logger"
	"iglesia/internal/report"
)

// Runner executes the daily scrape-and-clean flow.
type Runner struct {
	cfg       *config.Config
	extractor *fetch.Extractor
}

// New returns a Runner over the loaded configuration.
func New(cfg *config.Config) *Runner {
	timeout := time.Duration(cfg.Scraper.TimeoutSecs) * time.Second
	return &Runner{cfg: cfg, extractor: fetch.NewExtractor(timeout)}
}

// EpisodesPath is the daily output file for one date.
func EpisodesPath(dataDir, date string) string {
	return filepath.Join(dataDir, date, "episodes.json")
}

// MetadataPath is the accumulated episode metadata file.
func MetadataPath(dataDir string) string {
	return filepath.Join(dataDir, "episodes_metadata.json")
}

// RunDaily extracts and cleans every merged document dated date, then
// writes the day's episodes file. Per-document failures are recorded
// and the rest of the day still completes.
func (r *Runner) RunDaily(ctx context.Context, date string) ([]core.Episode, *report.Batch, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}

	links, err := archive.LoadLinks(r.cfg.Scraper.LinksDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load links: %w", err)
	}
	records := archive.Merge(links)

	var todays []core.DocumentRecord
	for _, rec := range records {
		if rec.Date == date {
			todays = append(todays, rec)
		}
	}
	logger.Info("daily pipeline", "date", date, "documents", len(todays))

	batch := report.New("pipeline " + date)
	var eps []core.Episode
	for _, rec := range todays {
		title := fmt.Sprintf("%s del %s", core.DocTypeFromPath(rec.Type).Display(), rec.Date)
		ep, err := r.extractor.Extract(ctx, rec, title)
		if err != nil {
			logger.Warn("document extraction failed", "url", rec.URL, "error", err.Error())
			batch.Failure(rec.Slug, err, "extraction failed")
			continue
		}
		ep.CleanText = cleaner.Clean(ep.Text)
		ep.Filename = core.AudioFilename(ep)
		eps = append(eps, ep)
		batch.Success(rec.Slug)
	}

	if err := SaveEpisodes(EpisodesPath(r.cfg.App.DataDir, date), eps); err != nil {
		return nil, batch, err
	}
	return eps, batch, nil
}

// SaveEpisodes writes one day's episodes file.
func SaveEpisodes(path string, eps []core.Episode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create episodes dir: %w", err)
	}
	data, err := json.MarshalIndent(eps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode episodes: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("episodes saved", "path", path, "count", len(eps))
	return nil
}

// LoadEpisodes reads one day's episodes file.
func LoadEpisodes(path string) ([]core.Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var eps []core.Episode
	if err := json.Unmarshal(data, &eps); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return eps, nil
}

// LoadAllEpisodes accumulates every dated episodes file under dataDir,
// oldest date first. Unreadable files are logged and skipped.
func LoadAllEpisodes(dataDir string) ([]core.Episode, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)

	var all []core.Episode
	for _, date := range dates {
		path := EpisodesPath(dataDir, date)
		eps, err := LoadEpisodes(path)
		if err != nil {
			logger.Warn("skipping unreadable episodes file", "path", path, "error", err.Error())
			continue
		}
		all = append(all, eps...)
	}
	return all, nil
}
