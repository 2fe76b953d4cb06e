package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iglesia/internal/core"
)

type fakeGen struct {
	calls    int
	response string
	err      error
}

func (f *fakeGen) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestParseMetadataToleratesSurroundingProse(t *testing.T) {
	raw := "Aquí tienes el JSON:\n```json\n" +
		`{"titulo_spotify": "Título", "descripcion_spotify": "Desc", "frases_seleccionadas": ["a", "b"]}` +
		"\n```"
	p, err := ParseMetadata(raw)
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}
	if p.SpotifyTitle != "Título" || len(p.SelectedQuotes) != 2 {
		t.Errorf("parsed = %+v", p)
	}
}

func TestParseMetadataMissingKeysIsSchemaError(t *testing.T) {
	_, err := ParseMetadata(`{"titulo_youtube": "solo esto"}`)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want SchemaError", err)
	}
	if len(se.Missing) != 2 {
		t.Errorf("missing = %v", se.Missing)
	}
}

func TestParseMetadataNoObject(t *testing.T) {
	if _, err := ParseMetadata("sin json aquí"); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnrichFallsBackOnGeneratorError(t *testing.T) {
	e := New(&fakeGen{err: errors.New("quota")}, "")
	ep := core.Episode{
		EpisodeNum: "2.1",
		Type:       "Homilía",
		Date:       "2025-05-18",
		CleanText:  strings.Repeat("palabra ", 50),
		Slug:       "20250518-homilia",
	}
	m := e.Enrich(context.Background(), ep)
	if m.SpotifyTitle != "[2.1] Homilía del 2025-05-18" {
		t.Errorf("fallback title = %q", m.SpotifyTitle)
	}
	if !strings.HasSuffix(m.SpotifyDesc, "...") || len([]rune(m.SpotifyDesc)) != 253 {
		t.Errorf("fallback desc = %q (%d runes)", m.SpotifyDesc, len([]rune(m.SpotifyDesc)))
	}
}

func TestRunSkipsAlreadyEnrichedSlugs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes_metadata.json")
	gen := &fakeGen{response: `{"titulo_spotify": "T", "descripcion_spotify": "D"}`}
	e := New(gen, path)

	eps := []core.Episode{
		{Slug: "a", Date: "2025-05-08"},
		{Slug: "b", Date: "2025-05-09"},
	}
	if _, err := e.Run(context.Background(), eps); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("first run calls = %d, want 2", gen.calls)
	}

	// Second run over the same episodes performs zero LLM calls.
	merged, err := e.Run(context.Background(), eps)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("second run added %d calls, want 0", gen.calls-2)
	}
	if len(merged) != 2 {
		t.Errorf("merged = %d records, want 2", len(merged))
	}
}

func TestCachedReusesPriorRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes_metadata.json")
	if err := SaveMetadata(path, []core.EpisodeMetadata{{Slug: "a", SpotifyTitle: "previa"}}); err != nil {
		t.Fatal(err)
	}
	gen := &fakeGen{response: `{"titulo_spotify": "T", "descripcion_spotify": "D"}`}
	c := NewCached(gen, path)

	got := c.Enrich(context.Background(), core.Episode{Slug: "a"})
	if gen.calls != 0 || got.SpotifyTitle != "previa" {
		t.Errorf("calls = %d, title = %q", gen.calls, got.SpotifyTitle)
	}

	got = c.Enrich(context.Background(), core.Episode{Slug: "b"})
	if gen.calls != 1 || got.SpotifyTitle != "T" {
		t.Errorf("calls = %d, title = %q", gen.calls, got.SpotifyTitle)
	}
}

func TestMergeLastWriteWinsPerSlug(t *testing.T) {
	old := []core.EpisodeMetadata{{Slug: "a", SpotifyTitle: "vieja"}, {Slug: "b", SpotifyTitle: "b"}}
	fresh := []core.EpisodeMetadata{{Slug: "a", SpotifyTitle: "nueva"}}
	got := Merge(old, fresh)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Slug != "a" || got[0].SpotifyTitle != "nueva" {
		t.Errorf("got[0] = %+v", got[0])
	}
}

func TestLoadMetadataCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episodes_metadata.json")
	if err := SaveMetadata(path, []core.EpisodeMetadata{{Slug: "x"}}); err != nil {
		t.Fatal(err)
	}
	if got := LoadMetadata(path); len(got) != 1 {
		t.Fatalf("round trip = %d records", len(got))
	}

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadMetadata(path); got != nil {
		t.Errorf("corrupt file loaded %d records, want none", len(got))
	}
}
