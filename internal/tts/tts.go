// Package tts synthesizes episode audio with Amazon Polly.
package tts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"iglesia/internal/logger"
)

// DefaultChunkSize is Polly's per-request text limit for our usage.
const DefaultChunkSize = 3000

// speechAPI is the Polly surface the synthesizer uses. Tests substitute
// fakes.
type speechAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Synthesizer turns cleaned episode text into a single MP3 byte stream.
type Synthesizer struct {
	client    speechAPI
	chunkSize int
}

// New returns a Synthesizer. A zero chunkSize uses DefaultChunkSize.
func New(client speechAPI, chunkSize int) *Synthesizer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Synthesizer{client: client, chunkSize: chunkSize}
}

// SplitText breaks text into chunks of at most max characters, cutting
// at sentence ends where possible and at word boundaries otherwise.
func SplitText(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}

	for _, sentence := range splitSentences(text) {
		if len(sentence) > max {
			flush()
			chunks = append(chunks, splitWords(sentence, max)...)
			continue
		}
		if cur.Len() > 0 && cur.Len()+1+len(sentence) > max {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(sentence)
	}
	flush()
	return chunks
}

// splitSentences cuts text after ". " runs, keeping the period.
func splitSentences(text string) []string {
	parts := strings.SplitAfter(text, ". ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitWords cuts an oversize sentence into max-sized pieces at spaces,
// hard-cutting any single word longer than max.
func splitWords(sentence string, max int) []string {
	var pieces []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
	}

	for _, word := range strings.Fields(sentence) {
		for len(word) > max {
			flush()
			pieces = append(pieces, word[:max])
			word = word[max:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(word) > max {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	flush()
	return pieces
}

// Synthesize converts text to MP3 audio, one Polly call per chunk, and
// concatenates the streams. Any chunk failure aborts the document's
// audio; the caller continues with the next document.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := SplitText(text, s.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to synthesize")
	}

	var audio []byte
	for i, chunk := range chunks {
		out, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
			Engine:       types.EngineLongForm,
			LanguageCode: types.LanguageCodeEsEs,
			OutputFormat: types.OutputFormatMp3,
			Text:         aws.String(chunk),
			VoiceId:      types.VoiceId("Raul"),
		})
		if err != nil {
			return nil, fmt.Errorf("polly chunk %d/%d failed: %w", i+1, len(chunks), err)
		}
		data, err := io.ReadAll(out.AudioStream)
		_ = out.AudioStream.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read audio stream for chunk %d: %w", i+1, err)
		}
		audio = append(audio, data...)
	}
	logger.Info("audio synthesized", "chunks", len(chunks), "bytes", len(audio))
	return audio, nil
}
