package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"iglesia/internal/core"
)

func TestSaveLoadEpisodes(t *testing.T) {
	dir := t.TempDir()
	path := EpisodesPath(dir, "2025-05-18")
	eps := []core.Episode{{Slug: "a", Date: "2025-05-18", CleanText: "texto"}}

	if err := SaveEpisodes(path, eps); err != nil {
		t.Fatalf("SaveEpisodes: %v", err)
	}
	got, err := LoadEpisodes(path)
	if err != nil {
		t.Fatalf("LoadEpisodes: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("got = %+v", got)
	}
}

func TestLoadAllEpisodesOldestFirst(t *testing.T) {
	dir := t.TempDir()
	if err := SaveEpisodes(EpisodesPath(dir, "2025-05-20"), []core.Episode{{Slug: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := SaveEpisodes(EpisodesPath(dir, "2025-05-08"), []core.Episode{{Slug: "a"}}); err != nil {
		t.Fatal(err)
	}
	// A corrupt day is skipped, not fatal.
	if err := os.MkdirAll(filepath.Join(dir, "2025-05-10"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(EpisodesPath(dir, "2025-05-10"), []byte("{roto"), 0o644); err != nil {
		t.Fatal(err)
	}

	all, err := LoadAllEpisodes(dir)
	if err != nil {
		t.Fatalf("LoadAllEpisodes: %v", err)
	}
	if len(all) != 2 || all[0].Slug != "a" || all[1].Slug != "b" {
		t.Errorf("all = %+v", all)
	}
}

func TestLoadAllEpisodesMissingDirIsEmpty(t *testing.T) {
	all, err := LoadAllEpisodes(filepath.Join(t.TempDir(), "no-existe"))
	if err != nil || all != nil {
		t.Errorf("got %v, %v", all, err)
	}
}
