// Package study holds the request-level workflows behind the HTTP API. Each
// workflow re-reads the state it needs, runs the usage gate and the prompt
// pipeline, calls the generator and persists the result.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studymate/internal/providers/generation"
)

// OCR extracts text from an uploaded image.
type OCR interface {
	ExtractText(ctx context.Context, img []byte) (string, error)
}

// ErrOCRUnavailable is returned when no OCR backend is configured.
var ErrOCRUnavailable = errors.New("image text extraction is not configured")

// SaveError reports a persistence failure after generation succeeded. The
// generated text is lost, so callers surface it apart from upstream errors.
type SaveError struct {
	Entity string
	Err    error
}

func (e *SaveError) Error() string { return fmt.Sprintf("save %s: %v", e.Entity, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

func saveErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	return &SaveError{Entity: entity, Err: err}
}

func generate(ctx context.Context, gen generation.Generator, call generation.Call) (string, error) {
	if gen == nil {
		return "", &generation.Error{Kind: generation.KindMisconfigured, Provider: "none", Err: errors.New("no generator")}
	}
	return gen.Generate(ctx, call)
}

type clock func() time.Time
