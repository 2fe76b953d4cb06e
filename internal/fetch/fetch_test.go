package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"iglesia/internal/core"
)

const samplePage = `<html><body>
<div class="testo">
  <div class="text">
    <p>Queridos hermanos y hermanas:</p>
    <p>La paz esté con todos ustedes.</p>
  </div>
  <div class="text">
    <p>Segundo bloque.</p>
    <p>  </p>
  </div>
</div>
</body></html>`

func TestDocumentText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatal(err)
	}
	text, err := DocumentText(doc)
	if err != nil {
		t.Fatalf("DocumentText: %v", err)
	}
	want := "Queridos hermanos y hermanas:\nLa paz esté con todos ustedes.\nSegundo bloque."
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestDocumentTextMissingContainer(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>x</p></body></html>"))
	if _, err := DocumentText(doc); err == nil {
		t.Fatal("expected error for missing testo container")
	}
}

func TestDateFromURL(t *testing.T) {
	u := "https://www.vatican.va/content/leo-xiv/es/homilies/2025/documents/20250518-homilia.html"
	if got := DateFromURL(u); got != "2025-05-18" {
		t.Errorf("DateFromURL = %q", got)
	}
	if got := DateFromURL("https://example.com/no-date.html"); got != "" {
		t.Errorf("DateFromURL = %q, want empty", got)
	}
}

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	}))
	defer srv.Close()

	rec := core.DocumentRecord{
		Pope:     "leo-xiv",
		Language: "es",
		URL:      srv.URL + "/content/leo-xiv/es/homilies/2025/documents/20250518-homilia.html",
		Slug:     "20250518-homilia",
		Type:     "homilies",
	}
	ep, err := NewExtractor(0).Extract(context.Background(), rec, "Homilía de prueba")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if ep.Date != "2025-05-18" {
		t.Errorf("date = %q", ep.Date)
	}
	if ep.Type != "Homilía" {
		t.Errorf("type = %q", ep.Type)
	}
	if !strings.HasPrefix(ep.Text, "Queridos hermanos") {
		t.Errorf("text = %q", ep.Text)
	}
}

func TestExtractServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewExtractor(0).Extract(context.Background(), core.DocumentRecord{URL: srv.URL}, "t")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
