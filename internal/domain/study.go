package domain

import "time"

// Note is a generated study note.
type Note struct {
	ID        string
	UserID    string
	Lesson    string
	Mode      string
	Content   string
	CreatedAt time.Time
}

// ChatSession groups chat exchanges under one title.
type ChatSession struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
}

// DefaultChatTitle is assigned to new sessions until the first question lands.
const DefaultChatTitle = "New Chat"

// Chat is a single question/answer exchange in a session.
type Chat struct {
	ID        string
	UserID    string
	SessionID string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// TutorMessage records one tutor answer. Rows count toward the tutor quota.
type TutorMessage struct {
	ID        string
	UserID    string
	Kind      string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// StudentProgress is the durable trail of topics a student started.
type StudentProgress struct {
	ID           string
	UserID       string
	Topic        string
	LastQuestion string
	Language     string
	Difficulty   string
	Notes        string
	CreatedAt    time.Time
}

// MemoryTest is an immutable record of one completed active-recall test.
type MemoryTest struct {
	ID         string
	UserID     string
	NoteID     string
	Questions  []string
	Scores     []float64
	Score      float64
	Total      int
	Percentage float64
	CreatedAt  time.Time
}
