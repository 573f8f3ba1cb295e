package study

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"studymate/internal/providers/gcp"
	"studymate/internal/storage"
)

// ErrVoiceUnavailable is returned when speech backends are not configured.
var ErrVoiceUnavailable = errors.New("speech services are not configured")

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// BlobStore caches synthesized audio.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) (string, error)
}

type Voice struct {
	tts   Synthesizer
	stt   Transcriber
	cache BlobStore
	log   zerolog.Logger
}

func NewVoice(tts Synthesizer, stt Transcriber, cache BlobStore, log zerolog.Logger) *Voice {
	return &Voice{tts: tts, stt: stt, cache: cache, log: log}
}

// Speak returns MP3 audio for text. Identical text and voice pairs are served
// from the cache.
func (v *Voice) Speak(ctx context.Context, text, voice string) ([]byte, error) {
	if v.tts == nil {
		return nil, ErrVoiceUnavailable
	}
	text = gcp.ClampText(text)
	if text == "" {
		return nil, fmt.Errorf("text is required: %w", gcp.ErrEmptyText)
	}
	name, _ := gcp.VoiceParams(voice)
	key := audioKey(text, name)
	if v.cache != nil {
		data, err := v.cache.Read(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			v.log.Warn().Err(err).Str("key", key).Msg("audio cache read")
		}
	}
	audio, err := v.tts.Synthesize(ctx, text, name)
	if err != nil {
		return nil, err
	}
	if v.cache != nil {
		if _, err := v.cache.Write(ctx, key, audio); err != nil {
			v.log.Warn().Err(err).Str("key", key).Msg("audio cache write")
		}
	}
	return audio, nil
}

func (v *Voice) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if v.stt == nil {
		return "", ErrVoiceUnavailable
	}
	return v.stt.Transcribe(ctx, audio, mimeType)
}

func audioKey(text, voice string) string {
	sum := sha256.Sum256([]byte(voice + "\x00" + text))
	h := hex.EncodeToString(sum[:])
	return "tts/" + strings.ToLower(voice) + "/" + h[:2] + "/" + h + ".mp3"
}
