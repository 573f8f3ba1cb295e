package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*User, error)
	LinkGoogle(ctx context.Context, email, sub string) (*User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	SetPlan(ctx context.Context, userID string, plan UserPlan) error
	SetPlanByEmail(ctx context.Context, email string, plan UserPlan) (string, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context, limit int) ([]UserSummary, error)
}

// NoteRepository persists generated notes.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Note, error)
	Get(ctx context.Context, userID, noteID string) (*Note, error)
	UpdateContent(ctx context.Context, userID, noteID, content string) error
	Delete(ctx context.Context, userID, noteID string) error
}

// ChatRepository persists chat sessions and their exchanges.
type ChatRepository interface {
	CreateSession(ctx context.Context, userID, title string) (*ChatSession, error)
	GetSession(ctx context.Context, userID, sessionID string) (*ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]ChatSession, error)
	RetitleDefault(ctx context.Context, sessionID, title string) error
	DeleteSession(ctx context.Context, userID, sessionID string) error
	AddChat(ctx context.Context, chat *Chat) error
	ListChats(ctx context.Context, userID, sessionID string) ([]Chat, error)
	RecentChats(ctx context.Context, userID, sessionID string, limit int) ([]Chat, error)
}

// TutorRepository persists tutor answers and progress rows.
type TutorRepository interface {
	AddMessage(ctx context.Context, msg *TutorMessage) error
	AddProgress(ctx context.Context, p *StudentProgress) error
	ListProgress(ctx context.Context, userID string, limit int) ([]StudentProgress, error)
}

// MemoryTestRepository persists completed tests.
type MemoryTestRepository interface {
	Create(ctx context.Context, test *MemoryTest) error
	Get(ctx context.Context, userID, testID string) (*MemoryTest, error)
}

// PaymentRepository records gateway payments idempotently by order ID.
type PaymentRepository interface {
	// RecordSuccess stores a captured payment and upgrades the user. It
	// returns ErrDuplicateOperation when the order was already recorded as
	// a success.
	RecordSuccess(ctx context.Context, p *Payment) error
	// RecordFailure stores a failed attempt unless the order already has a row.
	RecordFailure(ctx context.Context, p *Payment) error
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)
}

// StatsRepository serves dashboards.
type StatsRepository interface {
	AdminStats(ctx context.Context) (*AdminStats, error)
	Progress(ctx context.Context, userID string, today time.Time) (*ProgressSummary, error)
}
