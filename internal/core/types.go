package core

import "time"

// DocumentLink represents a document URL discovered on vatican.va.
// Links are immutable once discovered and keyed by URL.
type DocumentLink struct {
	Pope     string `json:"pope"`     // Pope slug (e.g. "leo-xiv")
	Language string `json:"language"` // Two-letter language code (e.g. "es")
	URL      string `json:"url"`      // Full document URL
}

// DocumentRecord is a merged link with fields derived from the URL path.
// The slug is assumed unique per document; the merger warns on collisions.
type DocumentRecord struct {
	Pope     string `json:"pope"`
	Language string `json:"language"`
	URL      string `json:"url"`
	Slug     string `json:"slug"`           // Longest path segment, doubles as filename key
	Type     string `json:"type"`           // Raw path segment ("homilies", "angelus", ...)
	Date     string `json:"date,omitempty"` // YYYY-MM-DD, empty when the slug carries no date
}

// Episode is one (document, language) unit moving through the pipeline.
type Episode struct {
	Title       string `json:"titulo"`
	Type        string `json:"tipo"` // Display name ("Homilía", "Ángelus", ...)
	Date        string `json:"fecha"`
	Language    string `json:"lang"`
	URL         string `json:"url"`
	Slug        string `json:"slug"`
	Text        string `json:"texto"`
	CleanText   string `json:"texto_limpio"`
	Filename    string `json:"filename"` // Audio/asset key without extension
	Week        int    `json:"pontificate_week"`
	SubIndex    int    `json:"sub_index"`
	EpisodeNum  string `json:"numero_episodio"` // "{week}.{sub_index}"
}

// EpisodeMetadata holds the LLM-generated platform fields plus the
// publication results. Created once per document during audio synthesis,
// never deleted, reused by the feed publisher.
type EpisodeMetadata struct {
	OriginalTitle    string   `json:"titulo_original"`
	SpotifyTitle     string   `json:"titulo_spotify"`
	SpotifyDesc      string   `json:"descripcion_spotify"`
	YoutubeTitle     string   `json:"titulo_youtube,omitempty"`
	InstagramMessage string   `json:"mensaje_instagram,omitempty"`
	SelectedQuotes   []string `json:"frases_seleccionadas,omitempty"`
	AudioURL         string   `json:"url_audio"`
	Date             string   `json:"fecha"`
	Filename         string   `json:"filename"`
	Type             string   `json:"tipo"`
	EpisodeNumber    string   `json:"numero_episodio"`
	VaticanURL       string   `json:"vatican_url"`
	Language         string   `json:"idioma"`
	Slug             string   `json:"slug"`
}

// DocumentAnalysis is the structured per-document output of the
// content-analysis step.
type DocumentAnalysis struct {
	SourceDocument string   `json:"fuente_documento"`
	DocumentType   string   `json:"tipo_documento"`
	OriginalURL    string   `json:"url_original"`
	Summary        string   `json:"resumen_general"`
	KeyIdeas       []string `json:"ideas_clave"`
	Tags           []string `json:"tags_sugeridos"`
}

// WeeklySummary is the consolidated Markdown summary for one
// pontificate week, rendered by the site and email publishers.
type WeeklySummary struct {
	Title    string    `yaml:"titulo"`
	Date     string    `yaml:"fecha"`
	Week     int       `yaml:"semana"`
	Body     string    `yaml:"-"` // Markdown body below the frontmatter
	Loaded   time.Time `yaml:"-"`
	FilePath string    `yaml:"-"`
}
