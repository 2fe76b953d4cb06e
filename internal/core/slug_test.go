package core

import (
	"strings"
	"testing"
)

func TestStripDiacritics(t *testing.T) {
	if got := StripDiacritics("Homilía del Ángelus, oración"); got != "Homilia del Angelus, oracion" {
		t.Errorf("got %q", got)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("La Misión de la Iglesia"); got != "la-mision-de-la-iglesia" {
		t.Errorf("got %q", got)
	}
}

func TestFileSlug(t *testing.T) {
	if got := FileSlug("Santa Misa: ¡homilía!"); got != "santa_misa_homilia" {
		t.Errorf("got %q", got)
	}
	long := FileSlug(strings.Repeat("palabra ", 30))
	if len(long) > 100 {
		t.Errorf("len = %d", len(long))
	}
	if strings.HasSuffix(long, "_") {
		t.Errorf("trailing separator: %q", long)
	}
}

func TestAudioFilename(t *testing.T) {
	ep := Episode{Date: "2025-05-18", Title: "Homilía de inicio"}
	if got := AudioFilename(ep); got != "2025_05_18_homilia_de_inicio" {
		t.Errorf("got %q", got)
	}
}
