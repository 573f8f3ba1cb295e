package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// ChatRepositoryPG implements domain.ChatRepository.
type ChatRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewChatRepository(sql infra.SQLExecutor) *ChatRepositoryPG {
	return &ChatRepositoryPG{sql: sql}
}

func (r *ChatRepositoryPG) CreateSession(ctx context.Context, userID, title string) (*domain.ChatSession, error) {
	s := domain.ChatSession{UserID: userID, Title: lo.Ternary(title == "", domain.DefaultChatTitle, title)}
	if err := r.sql.QueryRow(ctx, sqlinline.QInsertChatSession, userID, s.Title).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSession returns a session only when userID owns it.
func (r *ChatRepositoryPG) GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	s, err := scanSession(r.sql.QueryRow(ctx, sqlinline.QSelectChatSession, sessionID, userID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ChatRepositoryPG) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListChatSessions, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ChatSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// RetitleDefault replaces the title only while it is still the default.
func (r *ChatRepositoryPG) RetitleDefault(ctx context.Context, sessionID, title string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRetitleDefaultChatSession, sessionID, title)
	return err
}

func (r *ChatRepositoryPG) DeleteSession(ctx context.Context, userID, sessionID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteChatSession, sessionID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ChatRepositoryPG) AddChat(ctx context.Context, chat *domain.Chat) error {
	return r.sql.QueryRow(ctx, sqlinline.QInsertChat, chat.UserID, chat.SessionID, chat.Question, chat.Answer).
		Scan(&chat.ID, &chat.CreatedAt)
}

func (r *ChatRepositoryPG) ListChats(ctx context.Context, userID, sessionID string) ([]domain.Chat, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListChatsBySession, sessionID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.UserID, &c.SessionID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// RecentChats returns up to limit of the latest exchanges, oldest first.
func (r *ChatRepositoryPG) RecentChats(ctx context.Context, userID, sessionID string, limit int) ([]domain.Chat, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QRecentChatsBySession, sessionID, userID, clampLimit(limit, 50))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Chat
	for rows.Next() {
		c := domain.Chat{UserID: userID, SessionID: sessionID}
		if err := rows.Scan(&c.Question, &c.Answer); err != nil {
			return nil, fmt.Errorf("scan chat context: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func scanSession(row pgx.Row) (domain.ChatSession, error) {
	var s domain.ChatSession
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt)
	return s, err
}

var _ domain.ChatRepository = (*ChatRepositoryPG)(nil)
