package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

const visionTimeout = 60 * time.Second

// ErrNoText is returned when an image carries no readable text.
var ErrNoText = errors.New("gcp: no text found in image")

type annotateFunc func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)

// Vision extracts text from uploaded note and homework photos.
type Vision struct {
	annotate annotateFunc
	closer   func() error
}

func NewVision(ctx context.Context, opts ...option.ClientOption) (*Vision, error) {
	c, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &Vision{
		annotate: func(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
			return c.BatchAnnotateImages(ctx, req)
		},
		closer: c.Close,
	}, nil
}

func (v *Vision) Close() error {
	if v == nil || v.closer == nil {
		return nil
	}
	return v.closer()
}

// ExtractText runs DOCUMENT_TEXT_DETECTION and returns the full text with
// line breaks kept, since notes prompts rely on the original layout.
func (v *Vision) ExtractText(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", ErrNoText
	}
	ctx, cancel := context.WithTimeout(ctx, visionTimeout)
	defer cancel()

	resp, err := v.annotate(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", ErrNoText
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	text := ""
	if fta := r0.FullTextAnnotation; fta != nil {
		text = fta.Text
	}
	if strings.TrimSpace(text) == "" && len(r0.TextAnnotations) > 0 {
		text = r0.TextAnnotations[0].Description
	}
	text = normalizeLines(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func normalizeLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = collapseWhitespace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
