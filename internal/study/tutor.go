package study

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
)

const (
	nicknameLimit      = 40
	progressListLimit  = 100
	progressDifficulty = "normal"
	progressNote       = "Studied this topic"
)

// TutorReply is the answer to one tutor turn with the resulting phase.
type TutorReply struct {
	Answer string `json:"answer"`
	Action string `json:"action"`
	Phase  string `json:"phase"`
	Topic  string `json:"topic,omitempty"`
}

// TutorView is the client-visible part of the tutor state.
type TutorView struct {
	Phase    string          `json:"phase"`
	Topic    string          `json:"topic,omitempty"`
	Nickname string          `json:"nickname,omitempty"`
	History  []learning.Turn `json:"history"`
}

type Tutor struct {
	gate     *learning.Gate
	gen      generation.Generator
	sessions *learning.Sessions
	repo     domain.TutorRepository
	ocr      OCR
	log      zerolog.Logger
}

func NewTutor(gate *learning.Gate, gen generation.Generator, sessions *learning.Sessions, repo domain.TutorRepository, ocr OCR, log zerolog.Logger) *Tutor {
	return &Tutor{gate: gate, gen: gen, sessions: sessions, repo: repo, ocr: ocr, log: log}
}

// Ask runs one tutor turn. The state is saved only after the answer is
// generated and the tutor message is stored.
func (s *Tutor) Ask(ctx context.Context, user domain.User, in learning.TutorInput) (*TutorReply, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, learning.ErrEmptyQuestion
	}
	if in.Type == "" {
		in.Type = learning.InputQuestion
	}
	if err := s.gate.Allow(ctx, user, learning.QuotaTutor); err != nil {
		return nil, err
	}
	state, err := s.sessions.Tutor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	memory, err := s.memory(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	step, err := learning.PlanTurn(state, in, memory)
	if err != nil {
		return nil, err
	}
	prompt, err := learning.ComposeTutor(step.Body, user.EffectivePlan())
	if err != nil {
		return nil, err
	}
	answer, err := generate(ctx, s.gen, generation.Call{
		Prompt:      prompt.Text,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
		History:     historyMessages(state.History),
	})
	if err != nil {
		return nil, err
	}

	msg := &domain.TutorMessage{UserID: user.ID, Kind: string(step.Action), Question: strings.TrimSpace(in.Text), Answer: answer}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, saveErr("tutor message", err)
	}
	if step.RecordProgress {
		p := &domain.StudentProgress{
			UserID:       user.ID,
			Topic:        step.Topic,
			LastQuestion: strings.TrimSpace(in.Text),
			Language:     normalizeLanguage(in.Language),
			Difficulty:   progressDifficulty,
			Notes:        progressNote,
		}
		if err := s.repo.AddProgress(ctx, p); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("record tutor progress")
		}
	}
	next := state.Advance(step, answer)
	if err := s.sessions.SaveTutor(ctx, user.ID, next); err != nil {
		return nil, saveErr("tutor state", err)
	}
	return &TutorReply{Answer: answer, Action: string(step.Action), Phase: next.Phase().String(), Topic: next.Topic}, nil
}

// Image explains the text found in an uploaded image. It does not move the
// lesson state.
func (s *Tutor) Image(ctx context.Context, user domain.User, img []byte) (*TutorReply, error) {
	if s.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	if err := s.gate.Allow(ctx, user, learning.QuotaTutor); err != nil {
		return nil, err
	}
	text, err := s.ocr.ExtractText(ctx, img)
	if err != nil {
		return nil, err
	}
	prompt, err := learning.ComposeTutor(learning.ImageBody(text), user.EffectivePlan())
	if err != nil {
		return nil, err
	}
	answer, err := generate(ctx, s.gen, generation.Call{
		Prompt:      prompt.Text,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return nil, err
	}
	msg := &domain.TutorMessage{UserID: user.ID, Kind: "image", Question: learning.ImageChatQuestion, Answer: answer}
	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return nil, saveErr("tutor message", err)
	}
	state, err := s.sessions.Tutor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TutorReply{Answer: answer, Action: "image", Phase: state.Phase().String(), Topic: state.Topic}, nil
}

func (s *Tutor) Pause(ctx context.Context, userID string) (TutorView, error) {
	return s.update(ctx, userID, learning.TutorState.Pause)
}

func (s *Tutor) Clear(ctx context.Context, userID string) (TutorView, error) {
	return s.update(ctx, userID, learning.TutorState.Clear)
}

func (s *Tutor) ResetTopic(ctx context.Context, userID string) (TutorView, error) {
	return s.update(ctx, userID, learning.TutorState.ResetTopic)
}

// SetNickname stores how the tutor addresses the student.
func (s *Tutor) SetNickname(ctx context.Context, userID, name string) (TutorView, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || len([]rune(name)) > nicknameLimit {
		return TutorView{}, fmt.Errorf("nickname must be 1-%d characters: %w", nicknameLimit, domain.ErrInvalidInput)
	}
	return s.update(ctx, userID, func(st learning.TutorState) learning.TutorState {
		st.Nickname = name
		return st
	})
}

func (s *Tutor) State(ctx context.Context, userID string) (TutorView, error) {
	st, err := s.sessions.Tutor(ctx, userID)
	if err != nil {
		return TutorView{}, err
	}
	return viewOf(st), nil
}

func (s *Tutor) Progress(ctx context.Context, userID string) ([]domain.StudentProgress, error) {
	return s.repo.ListProgress(ctx, userID, progressListLimit)
}

func (s *Tutor) update(ctx context.Context, userID string, fn func(learning.TutorState) learning.TutorState) (TutorView, error) {
	st, err := s.sessions.Tutor(ctx, userID)
	if err != nil {
		return TutorView{}, err
	}
	next := fn(st)
	if err := s.sessions.SaveTutor(ctx, userID, next); err != nil {
		return TutorView{}, err
	}
	return viewOf(next), nil
}

// memory returns the latest progress topics, oldest first.
func (s *Tutor) memory(ctx context.Context, userID string) ([]string, error) {
	recent, err := s.repo.ListProgress(ctx, userID, learning.MemoryLimit)
	if err != nil {
		return nil, err
	}
	topics := lo.Map(recent, func(p domain.StudentProgress, _ int) string { return p.Topic })
	slices.Reverse(topics)
	return topics, nil
}

func historyMessages(turns []learning.Turn) []generation.Message {
	return lo.Map(turns, func(t learning.Turn, _ int) generation.Message {
		role := generation.RoleUser
		if t.Role == learning.RoleAssistant {
			role = generation.RoleAssistant
		}
		return generation.Message{Role: role, Content: t.Text}
	})
}

func viewOf(st learning.TutorState) TutorView {
	history := st.History
	if history == nil {
		history = []learning.Turn{}
	}
	return TutorView{Phase: st.Phase().String(), Topic: st.Topic, Nickname: st.Nickname, History: history}
}

func normalizeLanguage(lang string) string {
	switch l := strings.ToLower(strings.TrimSpace(lang)); l {
	case "hi", "kn":
		return l
	default:
		return "en"
	}
}
