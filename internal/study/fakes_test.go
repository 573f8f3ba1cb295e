package study

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"studymate/internal/adapter/kv"
	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/providers/generation"
)

var (
	freeUser  = domain.User{ID: "u-free", Plan: domain.UserPlanFree, Role: domain.UserRoleUser}
	proUser   = domain.User{ID: "u-pro", Plan: domain.UserPlanPro, Role: domain.UserRoleUser}
	adminUser = domain.User{ID: "u-admin", Plan: domain.UserPlanFree, Role: domain.UserRoleAdmin}
)

// recordingGenerator returns replies in order and records every call.
type recordingGenerator struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []generation.Call
}

func (g *recordingGenerator) Name() string { return "fake" }

func (g *recordingGenerator) Generate(_ context.Context, call generation.Call) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, call)
	if g.err != nil {
		return "", g.err
	}
	if len(g.replies) == 0 {
		return "ok", nil
	}
	r := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return r, nil
}

type fixedCounter map[learning.QuotaKind]int

func (c fixedCounter) CountSince(_ context.Context, _ string, kind learning.QuotaKind, _ time.Time) (int, error) {
	return c[kind], nil
}

type fakeOCR struct {
	text string
	err  error
}

func (o fakeOCR) ExtractText(context.Context, []byte) (string, error) { return o.text, o.err }

type memNotes struct {
	items   []domain.Note
	failAdd error
}

func (m *memNotes) Create(_ context.Context, n *domain.Note) error {
	if m.failAdd != nil {
		return m.failAdd
	}
	n.ID = fmt.Sprintf("n%d", len(m.items)+1)
	n.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.items = append([]domain.Note{*n}, m.items...)
	return nil
}

func (m *memNotes) ListByUser(_ context.Context, userID string, _ int) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotes) Get(_ context.Context, userID, noteID string) (*domain.Note, error) {
	for _, n := range m.items {
		if n.ID == noteID && n.UserID == userID {
			cp := n
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memNotes) UpdateContent(_ context.Context, userID, noteID, content string) error {
	for i, n := range m.items {
		if n.ID == noteID && n.UserID == userID {
			m.items[i].Content = content
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memNotes) Delete(_ context.Context, userID, noteID string) error {
	for i, n := range m.items {
		if n.ID == noteID && n.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memChats struct {
	sessions []domain.ChatSession
	chats    []domain.Chat
}

func (m *memChats) CreateSession(_ context.Context, userID, title string) (*domain.ChatSession, error) {
	s := domain.ChatSession{ID: fmt.Sprintf("s%d", len(m.sessions)+1), UserID: userID, Title: title}
	m.sessions = append(m.sessions, s)
	return &s, nil
}

func (m *memChats) GetSession(_ context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	for _, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			cp := s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memChats) ListSessions(_ context.Context, userID string) ([]domain.ChatSession, error) {
	var out []domain.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memChats) RetitleDefault(_ context.Context, sessionID, title string) error {
	for i, s := range m.sessions {
		if s.ID == sessionID && s.Title == domain.DefaultChatTitle {
			m.sessions[i].Title = title
		}
	}
	return nil
}

func (m *memChats) DeleteSession(_ context.Context, userID, sessionID string) error {
	for i, s := range m.sessions {
		if s.ID == sessionID && s.UserID == userID {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memChats) AddChat(_ context.Context, c *domain.Chat) error {
	c.ID = fmt.Sprintf("c%d", len(m.chats)+1)
	m.chats = append(m.chats, *c)
	return nil
}

func (m *memChats) ListChats(_ context.Context, userID, sessionID string) ([]domain.Chat, error) {
	var out []domain.Chat
	for _, c := range m.chats {
		if c.UserID == userID && c.SessionID == sessionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memChats) RecentChats(ctx context.Context, userID, sessionID string, limit int) ([]domain.Chat, error) {
	all, _ := m.ListChats(ctx, userID, sessionID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type memTutor struct {
	messages []domain.TutorMessage
	progress []domain.StudentProgress
}

func (m *memTutor) AddMessage(_ context.Context, msg *domain.TutorMessage) error {
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memTutor) AddProgress(_ context.Context, p *domain.StudentProgress) error {
	m.progress = append(m.progress, *p)
	return nil
}

// ListProgress returns newest first like the SQL implementation.
func (m *memTutor) ListProgress(_ context.Context, userID string, limit int) ([]domain.StudentProgress, error) {
	var out []domain.StudentProgress
	for i := len(m.progress) - 1; i >= 0 && len(out) < limit; i-- {
		if m.progress[i].UserID == userID {
			out = append(out, m.progress[i])
		}
	}
	return out, nil
}

type memTests struct {
	items []domain.MemoryTest
}

func (m *memTests) Create(_ context.Context, t *domain.MemoryTest) error {
	t.ID = fmt.Sprintf("t%d", len(m.items)+1)
	m.items = append(m.items, *t)
	return nil
}

func (m *memTests) Get(_ context.Context, userID, testID string) (*domain.MemoryTest, error) {
	for _, t := range m.items {
		if t.ID == testID && t.UserID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newSessions() *learning.Sessions {
	return learning.NewSessions(kv.NewMemoryStore(), time.Hour)
}

func nopLog() zerolog.Logger { return zerolog.Nop() }

func promptContains(call generation.Call, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(call.Prompt, p) {
			return false
		}
	}
	return true
}
