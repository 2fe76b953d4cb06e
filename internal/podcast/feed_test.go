package podcast

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"iglesia/internal/config"
	"iglesia/internal/core"
)

func testConfig() config.Podcast {
	return config.Podcast{
		Title:       "Homilías Papa León XIV",
		Link:        "https://igles-ia.es/podcast",
		Description: "Podcast de prueba",
		Language:    "es",
		Author:      "igles-ia.es",
		Image:       "https://igles-ia.es/images/podcast-cover.jpg",
		ImageBase:   "https://igles-ia.es/images/episodios/",
	}
}

func TestBuildNewestFirst(t *testing.T) {
	feed := Build(testConfig(), []core.EpisodeMetadata{
		{SpotifyTitle: "viejo", Date: "2025-05-08", AudioURL: "https://a/1.mp3", Filename: "uno"},
		{SpotifyTitle: "nuevo", Date: "2025-05-20", AudioURL: "https://a/2.mp3", Filename: "dos"},
		{SpotifyTitle: "sin audio", Date: "2025-05-21"},
	})

	if len(feed.Channel.Items) != 2 {
		t.Fatalf("items = %d, want 2 (no item without audio)", len(feed.Channel.Items))
	}
	if feed.Channel.Items[0].Title != "nuevo" {
		t.Errorf("first item = %q, want newest", feed.Channel.Items[0].Title)
	}
	if feed.Channel.Items[0].PubDate != "Tue, 20 May 2025 12:00:00 GMT" {
		t.Errorf("pubDate = %q", feed.Channel.Items[0].PubDate)
	}
	if feed.Channel.Items[0].Image.Href != "https://igles-ia.es/images/episodios/dos.jpg" {
		t.Errorf("image = %q", feed.Channel.Items[0].Image.Href)
	}
	if feed.Channel.Items[0].GUID == "" || feed.Channel.Items[0].GUID == feed.Channel.Items[1].GUID {
		t.Error("item GUIDs must be stable and distinct")
	}
}

func TestDescriptionFirstLineTruncated(t *testing.T) {
	long := strings.Repeat("x", 300) + "\nsegunda línea"
	got := description(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != 253 {
		t.Errorf("description = %d runes", len([]rune(got)))
	}
	if strings.Contains(got, "segunda") {
		t.Error("description crossed the first line")
	}
}

func TestWriteProducesParseableXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "podcast.xml")
	feed := Build(testConfig(), []core.EpisodeMetadata{
		{SpotifyTitle: "Episodio & más", Date: "2025-05-18", AudioURL: "https://a/1.mp3", Filename: "uno", EpisodeNumber: "2.1"},
	})
	if err := Write(path, feed); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), xml.Header) {
		t.Error("missing XML header")
	}

	// Round-trip through a minimal reader shape to confirm well-formed
	// output with the escaped ampersand intact.
	var parsed struct {
		Channel struct {
			Items []struct {
				Title string `xml:"title"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output not parseable: %v", err)
	}
	if parsed.Channel.Items[0].Title != "Episodio & más" {
		t.Errorf("title = %q", parsed.Channel.Items[0].Title)
	}
}
