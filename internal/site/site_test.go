package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iglesia/internal/config"
	"iglesia/internal/core"
)

const sampleSummary = `---
titulo: "Semana 2 del pontificado"
fecha: "2025-05-18"
semana: 2
---

## Lo esencial

El Papa habló de la *paz*.
`

func TestParseSummary(t *testing.T) {
	sum, err := ParseSummary("semana-2.md", []byte(sampleSummary))
	if err != nil {
		t.Fatalf("ParseSummary: %v", err)
	}
	if sum.Title != "Semana 2 del pontificado" || sum.Week != 2 || sum.Date != "2025-05-18" {
		t.Errorf("frontmatter = %+v", sum)
	}
	if !strings.HasPrefix(sum.Body, "## Lo esencial") {
		t.Errorf("body = %q", sum.Body)
	}
}

func TestParseSummaryMissingFrontmatter(t *testing.T) {
	if _, err := ParseSummary("x.md", []byte("solo cuerpo")); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderSummaryRoundTrip(t *testing.T) {
	in := core.WeeklySummary{Title: "Semana 1", Date: "2025-05-11", Week: 1, Body: "Texto."}
	data, err := RenderSummary(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ParseSummary("x.md", data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if out.Title != in.Title || out.Week != in.Week || out.Body != in.Body {
		t.Errorf("round trip = %+v", out)
	}
}

func TestLoadSummariesSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "semana-2.md"), []byte(sampleSummary), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "rota.md"), []byte("sin frontmatter"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("ignorar"), 0o644); err != nil {
		t.Fatal(err)
	}

	sums, err := LoadSummaries(dir)
	if err != nil {
		t.Fatalf("LoadSummaries: %v", err)
	}
	if len(sums) != 1 || sums[0].Week != 2 {
		t.Errorf("sums = %+v", sums)
	}
}

func TestBuildWritesPages(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(config.Site{BuildDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	sums := []core.WeeklySummary{
		{Title: "Semana 2", Date: "2025-05-18", Week: 2, Body: "## Título interno\n\nTexto en **negrita**."},
	}
	analyses := map[int][]core.DocumentAnalysis{
		2: {{SourceDocument: "Homilía", OriginalURL: "https://vatican.va/x", Summary: "Resumen.", KeyIdeas: []string{"una"}}},
	}
	if err := b.Build(sums, analyses); err != nil {
		t.Fatalf("Build: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `href="semana-2.html"`) {
		t.Errorf("index missing week link:\n%s", index)
	}

	week, err := os.ReadFile(filepath.Join(dir, "semana-2.html"))
	if err != nil {
		t.Fatal(err)
	}
	page := string(week)
	if !strings.Contains(page, "<strong>negrita</strong>") {
		t.Error("markdown body not rendered")
	}
	if !strings.Contains(page, "Homilía") || !strings.Contains(page, "Resumen.") {
		t.Error("analyses not on the week page")
	}
}
