// Package enrich generates per-episode platform metadata with the LLM
// and maintains the accumulated metadata file incrementally.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"iglesia/internal/core"
	"iglesia/internal/logger"
)

// Generator produces text for a prompt. *llm.Client satisfies it; tests
// substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const metadataPrompt = `Eres el editor del podcast "Homilías Papa León XIV".
A partir del siguiente texto de un documento papal, genera metadatos para
las plataformas. Responde SOLO con un objeto JSON con estas claves:

- "titulo_spotify": título atractivo para Spotify (máx. 90 caracteres)
- "descripcion_spotify": descripción del episodio (máx. 600 caracteres)
- "titulo_youtube": título para YouTube
- "mensaje_instagram": mensaje breve para Instagram
- "frases_seleccionadas": lista de 2-3 citas textuales destacadas

Tipo de documento: %s
Fecha: %s
Texto:
---
%s
---`

// SchemaError reports an LLM response that decoded as JSON but is
// missing required keys.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("metadata response missing required keys: %s", strings.Join(e.Missing, ", "))
}

// PlatformFields is the typed shape of the LLM metadata response.
type PlatformFields struct {
	SpotifyTitle     string   `json:"titulo_spotify"`
	SpotifyDesc      string   `json:"descripcion_spotify"`
	YoutubeTitle     string   `json:"titulo_youtube"`
	InstagramMessage string   `json:"mensaje_instagram"`
	SelectedQuotes   []string `json:"frases_seleccionadas"`
}

// ParseMetadata locates the outermost brace block in an LLM response and
// strict-decodes it. Prose around the JSON (markdown fences, lead-in
// sentences) is tolerated; missing required keys are not.
func ParseMetadata(raw string) (PlatformFields, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return PlatformFields{}, fmt.Errorf("no JSON object in response")
	}

	var p PlatformFields
	if err := json.Unmarshal([]byte(raw[start:end+1]), &p); err != nil {
		return PlatformFields{}, fmt.Errorf("failed to decode metadata JSON: %w", err)
	}

	var missing []string
	if p.SpotifyTitle == "" {
		missing = append(missing, "titulo_spotify")
	}
	if p.SpotifyDesc == "" {
		missing = append(missing, "descripcion_spotify")
	}
	if len(missing) > 0 {
		return PlatformFields{}, &SchemaError{Missing: missing}
	}
	return p, nil
}

// truncate cuts s to max runes, appending "..." when anything was cut.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// Fallback builds the substitute record used when generation or parsing
// fails: a mechanical title and the opening of the cleaned text.
func Fallback(ep core.Episode) core.EpisodeMetadata {
	desc := truncate(strings.TrimSpace(ep.CleanText), 250)
	return fromEpisode(ep, PlatformFields{
		SpotifyTitle: fmt.Sprintf("[%s] %s del %s", ep.EpisodeNum, ep.Type, ep.Date),
		SpotifyDesc:  desc,
	})
}

func fromEpisode(ep core.Episode, p PlatformFields) core.EpisodeMetadata {
	return core.EpisodeMetadata{
		OriginalTitle:    ep.Title,
		SpotifyTitle:     p.SpotifyTitle,
		SpotifyDesc:      p.SpotifyDesc,
		YoutubeTitle:     p.YoutubeTitle,
		InstagramMessage: p.InstagramMessage,
		SelectedQuotes:   p.SelectedQuotes,
		Date:             ep.Date,
		Filename:         ep.Filename,
		Type:             ep.Type,
		EpisodeNumber:    ep.EpisodeNum,
		VaticanURL:       ep.URL,
		Language:         ep.Language,
		Slug:             ep.Slug,
	}
}

// Enricher runs the metadata step over a batch of episodes.
type Enricher struct {
	gen  Generator
	path string // accumulated metadata file
}

// New returns an Enricher writing to the given metadata file.
func New(gen Generator, path string) *Enricher {
	return &Enricher{gen: gen, path: path}
}

// Enrich generates metadata for one episode. Failures never propagate;
// the fallback record keeps the pipeline moving.
func (e *Enricher) Enrich(ctx context.Context, ep core.Episode) core.EpisodeMetadata {
	prompt := fmt.Sprintf(metadataPrompt, ep.Type, ep.Date, ep.CleanText)
	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("metadata generation failed, using fallback", "slug", ep.Slug, "error", err.Error())
		return Fallback(ep)
	}
	p, err := ParseMetadata(raw)
	if err != nil {
		logger.Warn("metadata response unusable, using fallback", "slug", ep.Slug, "error", err.Error())
		return Fallback(ep)
	}
	return fromEpisode(ep, p)
}

// Run enriches only episodes whose slug is absent from the accumulated
// file, merges old and new records (last write wins per slug) and
// persists the result. A complete prior file means zero LLM calls.
func (e *Enricher) Run(ctx context.Context, eps []core.Episode) ([]core.EpisodeMetadata, error) {
	prior := LoadMetadata(e.path)

	done := make(map[string]bool, len(prior))
	for _, m := range prior {
		done[m.Slug] = true
	}

	var fresh []core.EpisodeMetadata
	for _, ep := range eps {
		if done[ep.Slug] {
			continue
		}
		fresh = append(fresh, e.Enrich(ctx, ep))
	}
	logger.Info("metadata enrichment", "prior", len(prior), "generated", len(fresh))

	merged := Merge(prior, fresh)
	if err := SaveMetadata(e.path, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Cached wraps an Enricher with the incremental gate: an episode whose
// slug already has a record reuses it without an LLM call.
type Cached struct {
	enr   *Enricher
	prior map[string]core.EpisodeMetadata
}

// NewCached loads the accumulated metadata file and returns a gated
// enricher over it.
func NewCached(gen Generator, path string) *Cached {
	records := LoadMetadata(path)
	prior := make(map[string]core.EpisodeMetadata, len(records))
	for _, r := range records {
		prior[r.Slug] = r
	}
	return &Cached{enr: New(gen, path), prior: prior}
}

// Enrich returns the prior record when one exists, generating otherwise.
func (c *Cached) Enrich(ctx context.Context, ep core.Episode) core.EpisodeMetadata {
	if m, ok := c.prior[ep.Slug]; ok {
		return m
	}
	return c.enr.Enrich(ctx, ep)
}

// Merge concatenates record sets and deduplicates by slug; later records
// replace earlier ones while keeping first-seen order.
func Merge(sets ...[]core.EpisodeMetadata) []core.EpisodeMetadata {
	index := make(map[string]int)
	var out []core.EpisodeMetadata
	for _, set := range sets {
		for _, m := range set {
			if i, ok := index[m.Slug]; ok {
				out[i] = m
				continue
			}
			index[m.Slug] = len(out)
			out = append(out, m)
		}
	}
	return out
}

// LoadMetadata reads the accumulated metadata file. Missing or corrupt
// files are treated as empty so a damaged file never blocks a run.
func LoadMetadata(path string) []core.EpisodeMetadata {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read metadata file, starting empty", "path", path, "error", err.Error())
		}
		return nil
	}
	var out []core.EpisodeMetadata
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("corrupt metadata file, starting empty", "path", path, "error", err.Error())
		return nil
	}
	return out
}

// SaveMetadata writes the accumulated metadata file.
func SaveMetadata(path string, records []core.EpisodeMetadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata dir: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
