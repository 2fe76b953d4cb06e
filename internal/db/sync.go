package db

import (
	"fmt"
	"regexp"
	"strings"

	"iglesia/internal/core"
	"iglesia/internal/logger"
	"iglesia/internal/report"
)

// vaticanSlug pulls the language and document slug out of a vatican.va
// document URL.
var vaticanSlug = regexp.MustCompile(`/([a-z]{2})/.*/documents/([^/]+)$`)

// SlugFromVaticanURL extracts (idioma, vatican_slug) from a document
// URL. The trailing .html is not part of the slug.
func SlugFromVaticanURL(u string) (lang, slug string, ok bool) {
	m := vaticanSlug.FindStringSubmatch(u)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSuffix(m[2], ".html"), true
}

// BuildTraducciones joins episode metadata against the anchor map
// (vatican_slug to homilias.id). Records without an anchor are warned
// and dropped; duplicates per (homilia_id, idioma) keep the last record.
func BuildTraducciones(records []core.EpisodeMetadata, anchors map[string]int64) []HomiliaTraduccion {
	type key struct {
		id     int64
		idioma string
	}
	index := make(map[key]int)
	var rows []HomiliaTraduccion

	for _, rec := range records {
		lang, slug, ok := SlugFromVaticanURL(rec.VaticanURL)
		if !ok {
			logger.Warn("metadata record with unparseable vatican URL dropped", "url", rec.VaticanURL)
			continue
		}
		id, ok := anchors[slug]
		if !ok {
			logger.Warn("no anchor row for document, dropped", "vatican_slug", slug)
			continue
		}
		row := HomiliaTraduccion{
			HomiliaID:   id,
			Idioma:      lang,
			Titulo:      rec.SpotifyTitle,
			Descripcion: rec.SpotifyDesc,
			URLAudio:    rec.AudioURL,
		}
		k := key{id, lang}
		if i, seen := index[k]; seen {
			rows[i] = row
			continue
		}
		index[k] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

// Sync pushes accumulated episode metadata into the hosted tables:
// read back the anchor map, join, and upsert the per-language rows.
func (c *Client) Sync(records []core.EpisodeMetadata) (*report.Batch, error) {
	homilias, err := c.Homilias()
	if err != nil {
		return nil, fmt.Errorf("failed to read anchor table: %w", err)
	}
	anchors := make(map[string]int64, len(homilias))
	for _, h := range homilias {
		anchors[h.VaticanSlug] = h.ID
	}

	rows := BuildTraducciones(records, anchors)
	logger.Info("database sync", "metadata_records", len(records), "rows", len(rows))
	return c.UpsertHomiliaTraducciones(rows), nil
}
