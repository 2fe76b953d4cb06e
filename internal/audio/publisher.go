// Package audio orchestrates the per-episode audio step: admission,
// existence gate, synthesis, upload and metadata assembly.
package audio

import (
	"context"

	"iglesia/internal/core"
	"iglesia/internal/logger"
	"iglesia/internal/report"
)

// Synthesizer produces MP3 audio for cleaned text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Store is the object-store surface the publisher needs.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	UploadAudio(ctx context.Context, key string, audio []byte) (string, error)
	PublicURL(key string) string
}

// Enricher generates the platform metadata record for one episode.
type Enricher interface {
	Enrich(ctx context.Context, ep core.Episode) core.EpisodeMetadata
}

// Options control one publisher run.
type Options struct {
	ForceRegenerate bool // re-synthesize even when the object exists
	MetadataOnly    bool // skip synthesis and upload entirely
	MinChars        int  // below this no episode is produced
	MaxChars        int  // above this the document is skipped entirely
}

// Publisher runs the audio step over a batch of episodes.
type Publisher struct {
	synth Synthesizer
	store Store
	enr   Enricher
	opts  Options
}

// NewPublisher wires the audio step's collaborators.
func NewPublisher(synth Synthesizer, store Store, enr Enricher, opts Options) *Publisher {
	return &Publisher{synth: synth, store: store, enr: enr, opts: opts}
}

// Run processes each episode independently and returns the produced
// metadata records plus a batch report. Per-episode failures never stop
// the batch.
func (p *Publisher) Run(ctx context.Context, eps []core.Episode) ([]core.EpisodeMetadata, *report.Batch) {
	batch := report.New("audio")
	var records []core.EpisodeMetadata

	for _, ep := range eps {
		n := len(ep.CleanText)
		switch {
		case n > p.opts.MaxChars:
			// Too long for an episode at all: no metadata, no audio.
			logger.Warn("document too long, skipped entirely", "slug", ep.Slug, "chars", n)
			continue
		case n < p.opts.MinChars:
			logger.Info("document too short for audio", "slug", ep.Slug, "chars", n)
			continue
		}

		meta := p.enr.Enrich(ctx, ep)
		if !p.opts.MetadataOnly {
			url, err := p.publishAudio(ctx, ep)
			if err != nil {
				// The episode keeps its metadata and ships without audio.
				logger.Error("audio publication failed", err, "slug", ep.Slug)
				batch.Failure(ep.Slug, err, "audio publication failed")
				records = append(records, meta)
				continue
			}
			meta.AudioURL = url
		}
		records = append(records, meta)
		batch.Success(ep.Slug)
	}
	return records, batch
}

// publishAudio synthesizes and uploads one episode, honoring the
// existence gate.
func (p *Publisher) publishAudio(ctx context.Context, ep core.Episode) (string, error) {
	key := ep.Filename + ".mp3"

	if !p.opts.ForceRegenerate {
		exists, err := p.store.Exists(ctx, key)
		if err != nil {
			return "", err
		}
		if exists {
			logger.Info("audio already published, reusing", "key", key)
			return p.store.PublicURL(key), nil
		}
	}

	audio, err := p.synth.Synthesize(ctx, ep.CleanText)
	if err != nil {
		return "", err
	}
	return p.store.UploadAudio(ctx, key, audio)
}
