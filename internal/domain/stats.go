package domain

import "time"

// AdminStats summarises the whole platform.
type AdminStats struct {
	TotalUsers int   `json:"total_users"`
	ProUsers   int   `json:"pro_users"`
	FreeUsers  int   `json:"free_users"`
	TotalNotes int   `json:"total_notes"`
	Revenue    int64 `json:"revenue"`
}

// UserSummary is a user row for admin listings.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	Plan      UserPlan  `json:"plan"`
	NoteCount int       `json:"note_count"`
	CreatedAt time.Time `json:"created_at"`
}

// DayActivity counts a user's chats and notes on one calendar day.
type DayActivity struct {
	Day   time.Time `json:"day"`
	Chats int       `json:"chats"`
	Notes int       `json:"notes"`
}

// LabelCount pairs a label with how often it occurred.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ProgressSummary is the per-user dashboard.
type ProgressSummary struct {
	TotalNotes    int           `json:"total_notes"`
	TotalChats    int           `json:"total_chats"`
	TutorMessages int           `json:"tutor_messages"`
	MemoryTests   int           `json:"memory_tests"`
	NotesToday    int           `json:"notes_today"`
	ChatsToday    int           `json:"chats_today"`
	LastSevenDays []DayActivity `json:"last_seven_days"`
	Topics        []LabelCount  `json:"topics"`
	TopQuestions  []LabelCount  `json:"top_questions"`
}
