package study

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
)

// imageChatTitle names sessions opened with a photo instead of a question.
const imageChatTitle = "Image Chat"

// ChatReply is the answer to one chat message.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

type Chat struct {
	gate  *learning.Gate
	gen   generation.Generator
	chats domain.ChatRepository
	ocr   OCR
	log   zerolog.Logger
}

func NewChat(gate *learning.Gate, gen generation.Generator, chats domain.ChatRepository, ocr OCR, log zerolog.Logger) *Chat {
	return &Chat{gate: gate, gen: gen, chats: chats, ocr: ocr, log: log}
}

// Send answers question inside sessionID, opening a new session when
// sessionID is empty.
func (s *Chat) Send(ctx context.Context, user domain.User, sessionID, question string) (*ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, learning.ErrEmptyQuestion
	}
	if err := s.gate.Allow(ctx, user, learning.QuotaChat); err != nil {
		return nil, err
	}
	return s.exchange(ctx, user, sessionID, question, question, func(prior []learning.Exchange) generation.Call {
		return learning.ChatPrompt(question, prior)
	})
}

// SendImage answers about the text found in an uploaded image.
func (s *Chat) SendImage(ctx context.Context, user domain.User, sessionID string, img []byte) (*ChatReply, error) {
	if s.ocr == nil {
		return nil, ErrOCRUnavailable
	}
	if err := s.gate.Allow(ctx, user, learning.QuotaChat); err != nil {
		return nil, err
	}
	text, err := s.ocr.ExtractText(ctx, img)
	if err != nil {
		return nil, err
	}
	return s.exchange(ctx, user, sessionID, learning.ImageChatQuestion, imageChatTitle, func(prior []learning.Exchange) generation.Call {
		return learning.ImageChatPrompt(text, prior)
	})
}

// exchange runs one gated chat turn; callers check the quota first.
func (s *Chat) exchange(ctx context.Context, user domain.User, sessionID, question, titleSource string, build func([]learning.Exchange) generation.Call) (*ChatReply, error) {
	session, err := s.openSession(ctx, user.ID, sessionID)
	if err != nil {
		return nil, err
	}
	recent, err := s.chats.RecentChats(ctx, user.ID, session.ID, learning.ChatContextLimit)
	if err != nil {
		return nil, err
	}
	prior := lo.Map(recent, func(c domain.Chat, _ int) learning.Exchange {
		return learning.Exchange{Question: c.Question, Answer: c.Answer}
	})
	answer, err := generate(ctx, s.gen, build(prior))
	if err != nil {
		return nil, err
	}
	chat := &domain.Chat{UserID: user.ID, SessionID: session.ID, Question: question, Answer: answer}
	if err := s.chats.AddChat(ctx, chat); err != nil {
		return nil, saveErr("chat", err)
	}
	title := session.Title
	if title == domain.DefaultChatTitle {
		title = learning.ChatTitle(titleSource)
		if err := s.chats.RetitleDefault(ctx, session.ID, title); err != nil {
			s.log.Warn().Err(err).Str("session_id", session.ID).Msg("retitle chat session")
			title = session.Title
		}
	}
	return &ChatReply{SessionID: session.ID, Title: title, Question: question, Answer: answer}, nil
}

func (s *Chat) openSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return s.chats.CreateSession(ctx, userID, domain.DefaultChatTitle)
	}
	return s.chats.GetSession(ctx, userID, sessionID)
}

func (s *Chat) Sessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	return s.chats.ListSessions(ctx, userID)
}

// Messages returns a session with its exchanges, oldest first.
func (s *Chat) Messages(ctx context.Context, userID, sessionID string) (*domain.ChatSession, []domain.Chat, error) {
	session, err := s.chats.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	chats, err := s.chats.ListChats(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, chats, nil
}

func (s *Chat) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return s.chats.DeleteSession(ctx, userID, sessionID)
}
