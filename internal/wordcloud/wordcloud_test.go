package wordcloud

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFrequencies(t *testing.T) {
	text := "La paz del Señor. La paz sea con vosotros. El Señor da la paz y la esperanza."
	entries := Frequencies(text, 0)

	if len(entries) == 0 {
		t.Fatal("no entries")
	}
	if entries[0].Text != "paz" || entries[0].Weight != 3 {
		t.Errorf("top entry = %+v", entries[0])
	}
	for _, e := range entries {
		if e.Text == "la" || e.Text == "del" || e.Text == "el" {
			t.Errorf("stopword %q survived", e.Text)
		}
	}
}

func TestFrequenciesTopN(t *testing.T) {
	entries := Frequencies("paz paz amor amor vida esperanza", 2)
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
	// Equal weights tie-break alphabetically.
	if entries[0].Text != "amor" || entries[1].Text != "paz" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nube.json")
	if err := Write(path, []Entry{{Text: "paz", Weight: 3}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []Entry
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Text != "paz" {
		t.Errorf("got = %+v", got)
	}
}
