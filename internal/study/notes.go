package study

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
	"studymate/pkg/zip"
)

// ImageNotesSubject is the lesson name given to notes generated from a photo.
const ImageNotesSubject = "Image Based Notes"

const noteListLimit = 200

// NoteRequest is one notes generation request as received from a client.
type NoteRequest struct {
	Subject     string
	Mode        string
	Instruction string
}

type Notes struct {
	gate  *learning.Gate
	gen   generation.Generator
	notes domain.NoteRepository
	ocr   OCR
	log   zerolog.Logger
}

func NewNotes(gate *learning.Gate, gen generation.Generator, notes domain.NoteRepository, ocr OCR, log zerolog.Logger) *Notes {
	return &Notes{gate: gate, gen: gen, notes: notes, ocr: ocr, log: log}
}

// Generate runs the full pipeline: usage gate, pro gate for MCQ, composition,
// generation and persistence. The note row is what moves the daily count.
func (s *Notes) Generate(ctx context.Context, user domain.User, req NoteRequest) (*domain.Note, error) {
	mode, err := learning.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Allow(ctx, user, learning.QuotaNotes); err != nil {
		return nil, err
	}
	if mode == learning.ModeMCQ {
		if err := learning.RequirePro(user, learning.FeatureMCQ); err != nil {
			return nil, err
		}
	}
	prompt, err := learning.Compose(learning.Request{
		Subject:     req.Subject,
		Mode:        mode,
		Instruction: req.Instruction,
		Plan:        user.EffectivePlan(),
	})
	if err != nil {
		return nil, err
	}
	out, err := generate(ctx, s.gen, generation.Call{
		Prompt:      prompt.Text,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return nil, err
	}
	note := &domain.Note{
		UserID:  user.ID,
		Lesson:  strings.TrimSpace(req.Subject),
		Mode:    mode.String(),
		Content: out,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, saveErr("note", err)
	}
	s.log.Debug().Str("user_id", user.ID).Str("kind", prompt.Kind.String()).Str("mode", note.Mode).Msg("note generated")
	return note, nil
}

// FromImage extracts the text of a photographed page and treats it as
// pasted study material.
func (s *Notes) FromImage(ctx context.Context, user domain.User, img []byte, mode string) (*domain.Note, error) {
	if s.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	text, err := s.ocr.ExtractText(ctx, img)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = learning.ModeBoard.String()
	}
	return s.Generate(ctx, user, NoteRequest{Subject: ImageNotesSubject, Mode: mode, Instruction: text})
}

// List returns the user's notes, newest first. A non-empty query keeps notes
// whose lesson fuzzy-matches it.
func (s *Notes) List(ctx context.Context, userID, query string) ([]domain.Note, error) {
	notes, err := s.notes.ListByUser(ctx, userID, noteListLimit)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return notes, nil
	}
	return lo.Filter(notes, func(n domain.Note, _ int) bool {
		return fuzzy.MatchFold(query, n.Lesson)
	}), nil
}

// View returns a note with markup stripped for display.
func (s *Notes) View(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	n, err := s.notes.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	n.Content = CleanContent(n.Content)
	return n, nil
}

func (s *Notes) Edit(ctx context.Context, userID, noteID, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required: %w", domain.ErrInvalidInput)
	}
	return s.notes.UpdateContent(ctx, userID, noteID, content)
}

func (s *Notes) Delete(ctx context.Context, userID, noteID string) error {
	return s.notes.Delete(ctx, userID, noteID)
}

// Download renders one note as plain text for pro users.
func (s *Notes) Download(ctx context.Context, user domain.User, noteID string) (string, []byte, error) {
	if err := learning.RequirePro(user, learning.FeatureDownload); err != nil {
		return "", nil, err
	}
	n, err := s.notes.Get(ctx, user.ID, noteID)
	if err != nil {
		return "", nil, err
	}
	return NoteFilename(n.Lesson), renderNote(*n), nil
}

// Export packs every note of a pro user into a zip archive.
func (s *Notes) Export(ctx context.Context, user domain.User) ([]byte, error) {
	if err := learning.RequirePro(user, learning.FeatureDownload); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByUser(ctx, user.ID, noteListLimit)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fmt.Errorf("no notes to export: %w", domain.ErrNotFound)
	}
	entries := lo.Map(notes, func(n domain.Note, _ int) zip.Entry {
		return zip.Entry{Name: NoteFilename(n.Lesson), Modified: n.CreatedAt, Data: renderNote(n)}
	})
	return zip.Archive(entries)
}

var (
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	filenameUnsafe = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)
)

// CleanContent strips HTML tags, decodes entities and drops blank lines.
func CleanContent(text string) string {
	text = html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lo.FilterMap(lines, func(l string, _ int) (string, bool) {
		l = strings.TrimSpace(l)
		return l, l != ""
	})
	return strings.Join(kept, "\n")
}

// NoteFilename turns a lesson title into a safe .txt file name.
func NoteFilename(lesson string) string {
	name := strings.TrimSpace(filenameUnsafe.ReplaceAllString(lesson, ""))
	name = strings.Join(strings.Fields(name), "_")
	if r := []rune(name); len(r) > 60 {
		name = string(r[:60])
	}
	if name == "" {
		name = "note"
	}
	return name + ".txt"
}

func renderNote(n domain.Note) []byte {
	var b strings.Builder
	b.WriteString(n.Lesson)
	b.WriteString("\n\n")
	b.WriteString(CleanContent(n.Content))
	b.WriteString("\n")
	return []byte(b.String())
}
