// Package agents runs the content-analysis step: a structured analysis
// per document and a consolidated Markdown summary per week.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"iglesia/internal/core"
	"iglesia/internal/logger"
	"iglesia/internal/report"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const analysisPrompt = `Analiza el siguiente documento papal. Responde SOLO con un
objeto JSON con estas claves:

- "resumen_general": resumen de 3-4 frases en español
- "ideas_clave": lista de 3-5 ideas principales
- "tags_sugeridos": lista de 3-6 etiquetas temáticas en minúsculas

Tipo: %s
Título: %s
Texto:
---
%s
---`

const weeklyPrompt = `Eres el redactor del boletín semanal de Igles-IA. A partir
de los siguientes resúmenes de documentos papales de una misma semana,
escribe un resumen semanal en Markdown (sin frontmatter): un párrafo de
apertura y una sección por documento con un encabezado de nivel 2.
Escribe en español, tono cercano y sobrio.

Resúmenes:
%s`

// Analyzer drives the two analysis prompts.
type Analyzer struct {
	gen Generator
}

// NewAnalyzer returns an Analyzer over the given generator.
func NewAnalyzer(gen Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// parseAnalysis locates the brace block in a response and decodes it.
func parseAnalysis(raw string) (core.DocumentAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return core.DocumentAnalysis{}, fmt.Errorf("no JSON object in response")
	}
	var a core.DocumentAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &a); err != nil {
		return core.DocumentAnalysis{}, fmt.Errorf("failed to decode analysis JSON: %w", err)
	}
	if a.Summary == "" {
		return core.DocumentAnalysis{}, fmt.Errorf("analysis response missing resumen_general")
	}
	return a, nil
}

// AnalyzeDocument produces the structured analysis for one episode.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, ep core.Episode) (core.DocumentAnalysis, error) {
	raw, err := a.gen.Generate(ctx, fmt.Sprintf(analysisPrompt, ep.Type, ep.Title, ep.CleanText))
	if err != nil {
		return core.DocumentAnalysis{}, fmt.Errorf("analysis generation failed for %s: %w", ep.Slug, err)
	}
	analysis, err := parseAnalysis(raw)
	if err != nil {
		return core.DocumentAnalysis{}, fmt.Errorf("%s: %w", ep.Slug, err)
	}
	analysis.SourceDocument = ep.Title
	analysis.DocumentType = ep.Type
	analysis.OriginalURL = ep.URL
	return analysis, nil
}

// AnalyzeAll analyzes a batch, persisting each result under dir as
// {slug}.json. Per-document failures are recorded and the batch
// continues.
func (a *Analyzer) AnalyzeAll(ctx context.Context, dir string, eps []core.Episode) ([]core.DocumentAnalysis, *report.Batch) {
	batch := report.New("analysis")
	var out []core.DocumentAnalysis
	for _, ep := range eps {
		analysis, err := a.AnalyzeDocument(ctx, ep)
		if err != nil {
			logger.Warn("document analysis failed", "slug", ep.Slug, "error", err.Error())
			batch.Failure(ep.Slug, err, "analysis failed")
			continue
		}
		if err := SaveAnalysis(dir, ep.Slug, analysis); err != nil {
			batch.Failure(ep.Slug, err, "could not persist analysis")
			continue
		}
		out = append(out, analysis)
		batch.Success(ep.Slug)
	}
	return out, batch
}

// WeeklySummary consolidates a week's analyses into the Markdown
// summary the site and the email render.
func (a *Analyzer) WeeklySummary(ctx context.Context, week int, date string, analyses []core.DocumentAnalysis) (core.WeeklySummary, error) {
	if len(analyses) == 0 {
		return core.WeeklySummary{}, fmt.Errorf("no analyses for week %d", week)
	}

	var b strings.Builder
	for _, an := range analyses {
		fmt.Fprintf(&b, "- %s (%s): %s\n", an.SourceDocument, an.DocumentType, an.Summary)
	}
	body, err := a.gen.Generate(ctx, fmt.Sprintf(weeklyPrompt, b.String()))
	if err != nil {
		return core.WeeklySummary{}, fmt.Errorf("weekly summary generation failed: %w", err)
	}

	return core.WeeklySummary{
		Title: fmt.Sprintf("Semana %d del pontificado", week),
		Date:  date,
		Week:  week,
		Body:  strings.TrimSpace(body),
	}, nil
}

// SaveAnalysis writes one analysis under dir as {slug}.json.
func SaveAnalysis(dir, slug string, analysis core.DocumentAnalysis) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create analyses dir: %w", err)
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	path := filepath.Join(dir, slug+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
