package db

import (
	"testing"

	"iglesia/internal/core"
)

func TestSlugFromVaticanURL(t *testing.T) {
	lang, slug, ok := SlugFromVaticanURL(
		"https://www.vatican.va/content/leo-xiv/es/homilies/2025/documents/20250518-homilia.html")
	if !ok || lang != "es" || slug != "20250518-homilia" {
		t.Errorf("got (%q, %q, %v)", lang, slug, ok)
	}

	if _, _, ok := SlugFromVaticanURL("https://example.com/sin/estructura"); ok {
		t.Error("expected no match")
	}
}

func TestBuildTraducciones(t *testing.T) {
	anchors := map[string]int64{"20250518-homilia": 7}
	records := []core.EpisodeMetadata{
		{
			VaticanURL:   "https://www.vatican.va/content/leo-xiv/es/homilies/2025/documents/20250518-homilia.html",
			SpotifyTitle: "Título",
			SpotifyDesc:  "Desc",
			AudioURL:     "https://b.s3.us-east-1.amazonaws.com/x.mp3",
		},
		{
			// No anchor row: dropped.
			VaticanURL: "https://www.vatican.va/content/leo-xiv/es/homilies/2025/documents/20250519-otra.html",
		},
		{
			// Unparseable URL: dropped.
			VaticanURL: "https://example.com/nada",
		},
	}

	rows := BuildTraducciones(records, anchors)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.HomiliaID != 7 || r.Idioma != "es" || r.URLAudio == "" {
		t.Errorf("row = %+v", r)
	}
}

func TestBuildTraduccionesDedupeLastWins(t *testing.T) {
	anchors := map[string]int64{"20250518-homilia": 7}
	u := "https://www.vatican.va/content/leo-xiv/es/homilies/2025/documents/20250518-homilia.html"
	rows := BuildTraducciones([]core.EpisodeMetadata{
		{VaticanURL: u, SpotifyTitle: "vieja"},
		{VaticanURL: u, SpotifyTitle: "nueva"},
	}, anchors)

	if len(rows) != 1 || rows[0].Titulo != "nueva" {
		t.Errorf("rows = %+v", rows)
	}
}
