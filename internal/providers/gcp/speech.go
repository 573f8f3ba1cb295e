package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

const (
	speechTimeout       = 90 * time.Second
	speechLanguage      = "en-IN"
	MaxSpeechAudioBytes = 10 << 20
)

var (
	speechAlternatives = []string{"hi-IN", "kn-IN"}

	ErrEmptyAudio = errors.New("gcp: audio is empty")
	ErrNoSpeech   = errors.New("gcp: no speech recognized")
)

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// Speech transcribes short spoken questions.
type Speech struct {
	recognize recognizeFunc
	closer    func() error
}

func NewSpeech(ctx context.Context, opts ...option.ClientOption) (*Speech, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &Speech{
		recognize: func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
			return c.Recognize(ctx, req)
		},
		closer: c.Close,
	}, nil
}

func (s *Speech) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Transcribe recognizes Indian English with Hindi and Kannada as alternates.
func (s *Speech) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if len(audio) > MaxSpeechAudioBytes {
		return "", fmt.Errorf("gcp: audio exceeds %d bytes", MaxSpeechAudioBytes)
	}
	ctx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()

	resp, err := s.recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               speechLanguage,
			AlternativeLanguageCodes:   speechAlternatives,
			EnableAutomaticPunctuation: true,
			Encoding:                   inferEncoding(mimeType),
		},
		Audio: &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	})
	if err != nil {
		return "", fmt.Errorf("speech Recognize: %w", err)
	}
	var b strings.Builder
	for _, r := range resp.GetResults() {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		t := strings.TrimSpace(r.Alternatives[0].Transcript)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	if b.Len() == 0 {
		return "", ErrNoSpeech
	}
	return b.String(), nil
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
