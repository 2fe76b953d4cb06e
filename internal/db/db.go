// Package db reads and writes the hosted Supabase tables that back the
// website and the podcast feed.
package db

import (
	"fmt"

	"github.com/supabase-community/supabase-go"

	"iglesia/internal/config"
	"iglesia/internal/report"
)

const (
	// PageSize is the PostgREST read window.
	PageSize = 1000
	// ChunkSize is the number of rows per upsert call.
	ChunkSize = 500
)

// Homilia is the anchor row for one document.
type Homilia struct {
	ID          int64  `json:"id,omitempty"`
	VaticanSlug string `json:"vatican_slug"`
	Fecha       string `json:"fecha,omitempty"`
	Tipo        string `json:"tipo,omitempty"`
	Semana      int    `json:"semana,omitempty"`
}

// HomiliaTraduccion is one language's rendition of a document.
type HomiliaTraduccion struct {
	HomiliaID   int64  `json:"homilia_id"`
	Idioma      string `json:"idioma"`
	Titulo      string `json:"titulo,omitempty"`
	Descripcion string `json:"descripcion,omitempty"`
	URLAudio    string `json:"url_audio,omitempty"`
}

// Semana is one pontificate week.
type Semana struct {
	ID          int64  `json:"id,omitempty"`
	Numero      int    `json:"numero"`
	FechaInicio string `json:"fecha_inicio"`
	FechaFin    string `json:"fecha_fin,omitempty"`
}

// SemanaTraduccion is one language's weekly summary.
type SemanaTraduccion struct {
	SemanaID int64  `json:"semana_id"`
	Idioma   string `json:"idioma"`
	Titulo   string `json:"titulo,omitempty"`
	Resumen  string `json:"resumen,omitempty"`
}

// Client wraps the Supabase SDK for the project's tables.
type Client struct {
	sb *supabase.Client
}

// NewClient connects to Supabase with the service key.
func NewClient(cfg config.Supabase) (*Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" {
		return nil, fmt.Errorf("supabase URL and service key are required")
	}
	sb, err := supabase.NewClient(cfg.URL, cfg.ServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize supabase client: %w", err)
	}
	return &Client{sb: sb}, nil
}

// Homilias reads the full anchor table, paginated.
func (c *Client) Homilias() ([]Homilia, error) {
	return ReadAll(func(from, to int) ([]Homilia, error) {
		var page []Homilia
		_, err := c.sb.From("homilias").
			Select("id,vatican_slug,fecha,tipo", "", false).
			Range(from, to, "").
			ExecuteTo(&page)
		return page, err
	}, PageSize)
}

// UpsertHomilias writes anchor rows, conflicting on vatican_slug.
func (c *Client) UpsertHomilias(rows []Homilia) *report.Batch {
	return UpsertChunks("homilias", rows, ChunkSize, func(chunk []Homilia) error {
		_, _, err := c.sb.From("homilias").Upsert(chunk, "vatican_slug", "", "").Execute()
		return err
	})
}

// UpsertHomiliaTraducciones writes per-language rows, conflicting on
// (homilia_id, idioma).
func (c *Client) UpsertHomiliaTraducciones(rows []HomiliaTraduccion) *report.Batch {
	return UpsertChunks("homilias_traducciones", rows, ChunkSize, func(chunk []HomiliaTraduccion) error {
		_, _, err := c.sb.From("homilias_traducciones").Upsert(chunk, "homilia_id,idioma", "", "").Execute()
		return err
	})
}

// Semanas reads the weeks table, paginated.
func (c *Client) Semanas() ([]Semana, error) {
	return ReadAll(func(from, to int) ([]Semana, error) {
		var page []Semana
		_, err := c.sb.From("semanas").
			Select("id,numero,fecha_inicio,fecha_fin", "", false).
			Range(from, to, "").
			ExecuteTo(&page)
		return page, err
	}, PageSize)
}

// UpsertSemanas writes week rows, conflicting on fecha_inicio.
func (c *Client) UpsertSemanas(rows []Semana) *report.Batch {
	return UpsertChunks("semanas", rows, ChunkSize, func(chunk []Semana) error {
		_, _, err := c.sb.From("semanas").Upsert(chunk, "fecha_inicio", "", "").Execute()
		return err
	})
}

// UpsertSemanaTraducciones writes weekly summaries, conflicting on
// (semana_id, idioma).
func (c *Client) UpsertSemanaTraducciones(rows []SemanaTraduccion) *report.Batch {
	return UpsertChunks("semanas_traducciones", rows, ChunkSize, func(chunk []SemanaTraduccion) error {
		_, _, err := c.sb.From("semanas_traducciones").Upsert(chunk, "semana_id,idioma", "", "").Execute()
		return err
	})
}
