package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
)

// ErrNoPendingTest is returned by Submit when no memory test was started.
var ErrNoPendingTest = errors.New("no memory test in progress")

// MemoryTests runs active-recall tests over a user's notes.
type MemoryTests struct {
	gen      generation.Generator
	scorer   *learning.Scorer
	notes    domain.NoteRepository
	tests    domain.MemoryTestRepository
	sessions *learning.Sessions
	log      zerolog.Logger
}

func NewMemoryTests(gen generation.Generator, scorer *learning.Scorer, notes domain.NoteRepository, tests domain.MemoryTestRepository, sessions *learning.Sessions, log zerolog.Logger) *MemoryTests {
	return &MemoryTests{gen: gen, scorer: scorer, notes: notes, tests: tests, sessions: sessions, log: log}
}

// Start generates recall questions for a note and holds them until Submit.
// Starting again replaces the pending test.
func (s *MemoryTests) Start(ctx context.Context, user domain.User, noteID string) ([]string, error) {
	if err := learning.RequirePro(user, learning.FeatureMemoryTest); err != nil {
		return nil, err
	}
	note, err := s.notes.Get(ctx, user.ID, noteID)
	if err != nil {
		return nil, err
	}
	reply, err := generate(ctx, s.gen, learning.RecallPrompt(note.Content))
	if err != nil {
		return nil, err
	}
	questions, err := learning.ParseQuestions(reply)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SaveRecall(ctx, user.ID, learning.PendingRecall{NoteID: note.ID, Questions: questions}); err != nil {
		return nil, saveErr("memory test", err)
	}
	return questions, nil
}

// Submit grades answers against the pending questions and stores the result.
func (s *MemoryTests) Submit(ctx context.Context, user domain.User, answers []string) (*domain.MemoryTest, error) {
	if err := learning.RequirePro(user, learning.FeatureMemoryTest); err != nil {
		return nil, err
	}
	pending, err := s.sessions.Recall(ctx, user.ID)
	if errors.Is(err, learning.ErrStateNotFound) {
		return nil, ErrNoPendingTest
	}
	if err != nil {
		return nil, err
	}
	if len(answers) > len(pending.Questions) {
		return nil, fmt.Errorf("got %d answers for %d questions: %w", len(answers), len(pending.Questions), domain.ErrInvalidInput)
	}
	res, err := s.scorer.ScoreAll(ctx, pending.Questions, answers)
	if err != nil {
		return nil, err
	}
	test := &domain.MemoryTest{
		UserID:     user.ID,
		NoteID:     pending.NoteID,
		Questions:  pending.Questions,
		Scores:     make([]float64, len(res.Scores)),
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
	}
	for i, sc := range res.Scores {
		test.Scores[i] = sc.Value
	}
	if err := s.tests.Create(ctx, test); err != nil {
		return nil, saveErr("memory test", err)
	}
	if err := s.sessions.ClearRecall(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("clear pending memory test")
	}
	return test, nil
}

func (s *MemoryTests) Result(ctx context.Context, userID, testID string) (*domain.MemoryTest, error) {
	return s.tests.Get(ctx, userID, testID)
}
