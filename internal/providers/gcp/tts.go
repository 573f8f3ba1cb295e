package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

const (
	DefaultVoice      = "en-IN-Neural2-C"
	MaxSpeechChars    = 4500
	speakingRate      = 0.96
	synthesizeTimeout = 30 * time.Second
)

var ErrEmptyText = errors.New("gcp: text is empty")

type synthesizeFunc func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error)

// TextToSpeech reads notes and tutor replies aloud as MP3.
type TextToSpeech struct {
	synthesize synthesizeFunc
	closer     func() error
}

func NewTextToSpeech(ctx context.Context, opts ...option.ClientOption) (*TextToSpeech, error) {
	c, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech client: %w", err)
	}
	return &TextToSpeech{
		synthesize: func(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest) (*texttospeechpb.SynthesizeSpeechResponse, error) {
			return c.SynthesizeSpeech(ctx, req)
		},
		closer: c.Close,
	}, nil
}

func (t *TextToSpeech) Close() error {
	if t == nil || t.closer == nil {
		return nil
	}
	return t.closer()
}

// VoiceParams returns the voice to use and its language code. Unknown or
// blank voices fall back to DefaultVoice.
func VoiceParams(voice string) (name, language string) {
	name = strings.TrimSpace(voice)
	if name == "" {
		name = DefaultVoice
	}
	switch {
	case strings.HasPrefix(name, "hi-IN"):
		language = "hi-IN"
	case strings.HasPrefix(name, "kn-IN"):
		language = "kn-IN"
	case strings.HasPrefix(name, "en-IN"):
		language = "en-IN"
	default:
		name, language = DefaultVoice, "en-IN"
	}
	return name, language
}

// ClampText trims text and cuts it to MaxSpeechChars runes.
func ClampText(text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) > MaxSpeechChars {
		return string(r[:MaxSpeechChars])
	}
	return text
}

// Synthesize returns MP3 audio for text using the given voice.
func (t *TextToSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	text = ClampText(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	name, language := VoiceParams(voice)
	ctx, cancel := context.WithTimeout(ctx, synthesizeTimeout)
	defer cancel()

	resp, err := t.synthesize(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{InputSource: &texttospeechpb.SynthesisInput_Text{Text: text}},
		Voice: &texttospeechpb.VoiceSelectionParams{LanguageCode: language, Name: name},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  speakingRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("texttospeech SynthesizeSpeech: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, errors.New("gcp: empty audio returned")
	}
	return resp.GetAudioContent(), nil
}
