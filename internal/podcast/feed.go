// Package podcast renders the RSS 2.0 + iTunes feed from accumulated
// episode metadata.
package podcast

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"iglesia/internal/config"
	"iglesia/internal/core"
	"iglesia/internal/logger"
)

const itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"

// RSS is the feed document.
type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	ITunes  string   `xml:"xmlns:itunes,attr"`
	Channel Channel  `xml:"channel"`
}

// Channel holds the podcast-level metadata.
type Channel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	Language    string      `xml:"language"`
	Author      string      `xml:"itunes:author"`
	Image       ITunesImage `xml:"itunes:image"`
	Items       []Item      `xml:"item"`
}

// ITunesImage is the href-only itunes image element.
type ITunesImage struct {
	Href string `xml:"href,attr"`
}

// Enclosure points at the episode audio.
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Item is one feed episode.
type Item struct {
	Title       string      `xml:"title"`
	Description string      `xml:"description"`
	PubDate     string      `xml:"pubDate"`
	GUID        string      `xml:"guid"`
	Enclosure   Enclosure   `xml:"enclosure"`
	Image       ITunesImage `xml:"itunes:image"`
	Episode     string      `xml:"itunes:episode,omitempty"`
}

// itemGUID derives a stable identifier from the audio URL so clients
// never re-download episodes after feed rebuilds.
func itemGUID(audioURL string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(audioURL)).String()
}

// pubDate renders the fixed-noon RFC 1123 date podcast clients expect.
func pubDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Format("Mon, 02 Jan 2006") + " 12:00:00 GMT"
}

// description takes the first line of the Spotify description, capped at
// 250 characters.
func description(desc string) string {
	line := desc
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		line = desc[:i]
	}
	line = strings.TrimSpace(line)
	r := []rune(line)
	if len(r) > 250 {
		return string(r[:250]) + "..."
	}
	return line
}

// Build assembles the feed, newest episode first. Records without an
// audio URL are not feed items.
func Build(cfg config.Podcast, records []core.EpisodeMetadata) RSS {
	sorted := make([]core.EpisodeMetadata, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].EpisodeNumber > sorted[j].EpisodeNumber
	})

	var items []Item
	for _, rec := range sorted {
		if rec.AudioURL == "" {
			continue
		}
		items = append(items, Item{
			Title:       rec.SpotifyTitle,
			Description: description(rec.SpotifyDesc),
			PubDate:     pubDate(rec.Date),
			GUID:        itemGUID(rec.AudioURL),
			Enclosure:   Enclosure{URL: rec.AudioURL, Type: "audio/mpeg"},
			Image:       ITunesImage{Href: cfg.ImageBase + rec.Filename + ".jpg"},
			Episode:     rec.EpisodeNumber,
		})
	}

	return RSS{
		Version: "2.0",
		ITunes:  itunesNS,
		Channel: Channel{
			Title:       cfg.Title,
			Link:        cfg.Link,
			Description: cfg.Description,
			Language:    cfg.Language,
			Author:      cfg.Author,
			Image:       ITunesImage{Href: cfg.Image},
			Items:       items,
		},
	}
}

// Write renders the feed document to path.
func Write(path string, feed RSS) error {
	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}
	out := []byte(xml.Header + string(data) + "\n")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("feed written", "path", path, "items", len(feed.Channel.Items))
	return nil
}
