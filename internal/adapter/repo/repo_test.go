package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/sqlinline"
)

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{rows: []pgx.Row{errRow(&pgconn.PgError{Code: "23505"})}}
	_, err := NewUserRepository(exec).Create(context.Background(), &domain.User{Username: "asha", Email: "a@example.com"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("Create error = %v, want ErrEmailTaken", err)
	}
}

func TestUserGetByIDScansPlanAndRole(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	exec := &scriptedExecutor{rows: []pgx.Row{valuesRow("u1", "asha", "a@example.com", "hash", "", "admin", "weird", created)}}
	u, err := NewUserRepository(exec).GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if u.Role != domain.UserRoleAdmin {
		t.Fatalf("Role = %q", u.Role)
	}
	if u.Plan != domain.UserPlanFree {
		t.Fatalf("Plan = %q, want free for unknown stored value", u.Plan)
	}
	if exec.calls[0].query != sqlinline.QSelectUserByID {
		t.Fatalf("unexpected query")
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	t.Parallel()
	_, err := NewUserRepository(&scriptedExecutor{}).GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByID error = %v, want ErrNotFound", err)
	}
}

func TestUserDeleteNoRowsIsNotFound(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{tags: []pgconn.CommandTag{pgconn.NewCommandTag("DELETE 0")}}
	if err := NewUserRepository(exec).Delete(context.Background(), "admin-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestNoteListScansRows(t *testing.T) {
	t.Parallel()
	now := time.Now()
	exec := &scriptedExecutor{sets: [][][]any{{
		{"n1", "u1", "Cells", "board", "content 1", now},
		{"n2", "u1", "Atoms", "short", "content 2", now},
	}}}
	notes, err := NewNoteRepository(exec).ListByUser(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(notes) != 2 || notes[1].Lesson != "Atoms" {
		t.Fatalf("notes = %+v", notes)
	}
	if got := exec.calls[0].args[1]; got != 200 {
		t.Fatalf("limit arg = %v, want clamped 200", got)
	}
}

func TestChatCreateSessionDefaultsTitle(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{rows: []pgx.Row{valuesRow("s1", time.Now())}}
	s, err := NewChatRepository(exec).CreateSession(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if s.Title != domain.DefaultChatTitle || s.ID != "s1" {
		t.Fatalf("session = %+v", s)
	}
	if exec.calls[0].args[1] != domain.DefaultChatTitle {
		t.Fatalf("title arg = %v", exec.calls[0].args[1])
	}
}

func TestChatGetSessionOwnership(t *testing.T) {
	t.Parallel()
	_, err := NewChatRepository(&scriptedExecutor{}).GetSession(context.Background(), "u2", "s1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetSession error = %v, want ErrNotFound", err)
	}
}

func TestMemoryTestCreateEncodesJSON(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{rows: []pgx.Row{valuesRow("m1", time.Now())}}
	test := &domain.MemoryTest{UserID: "u1", NoteID: "n1", Questions: []string{"q1", "q2"}, Scores: []float64{1, 0.5}, Score: 1.5, Total: 2, Percentage: 75}
	if err := NewMemoryTestRepository(exec).Create(context.Background(), test); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	var qs []string
	if err := json.Unmarshal(exec.calls[0].args[2].([]byte), &qs); err != nil || len(qs) != 2 {
		t.Fatalf("questions arg = %s, %v", exec.calls[0].args[2], err)
	}
	if test.ID != "m1" {
		t.Fatalf("ID = %q", test.ID)
	}
}

func TestMemoryTestGetDecodesJSON(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{rows: []pgx.Row{valuesRow("m1", "u1", "n1", []byte(`["a","b"]`), []byte(`[1,0]`), 1.0, 2, 50.0, time.Now())}}
	got, err := NewMemoryTestRepository(exec).Get(context.Background(), "u1", "m1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got.Questions) != 2 || got.Scores[0] != 1 || got.Percentage != 50 {
		t.Fatalf("test = %+v", got)
	}
}

func TestPaymentRecordSuccessReplayIsDuplicate(t *testing.T) {
	t.Parallel()
	repo := NewPaymentRepository(&scriptedExecutor{})
	err := repo.RecordSuccess(context.Background(), &domain.Payment{UserID: "u1", OrderID: "order_1"})
	if !errors.Is(err, domain.ErrDuplicateOperation) {
		t.Fatalf("RecordSuccess error = %v, want ErrDuplicateOperation", err)
	}
}

func TestPaymentRecordSuccessDefaultsCurrency(t *testing.T) {
	t.Parallel()
	exec := &scriptedExecutor{rows: []pgx.Row{valuesRow("p1", 1)}}
	p := &domain.Payment{UserID: "u1", OrderID: "order_1", PaymentID: "pay_1", Amount: 99}
	if err := NewPaymentRepository(exec).RecordSuccess(context.Background(), p); err != nil {
		t.Fatalf("RecordSuccess returned error: %v", err)
	}
	if p.Status != domain.PaymentStatusSuccess || p.ID != "p1" {
		t.Fatalf("payment = %+v", p)
	}
	if exec.calls[0].args[4] != "INR" {
		t.Fatalf("currency arg = %v", exec.calls[0].args[4])
	}
}

func TestUsageCounterPicksQueryPerKind(t *testing.T) {
	t.Parallel()
	cases := map[learning.QuotaKind]string{
		learning.QuotaNotes: sqlinline.QCountNotesSince,
		learning.QuotaChat:  sqlinline.QCountChatsSince,
		learning.QuotaTutor: sqlinline.QCountTutorMessagesSince,
	}
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	for kind, query := range cases {
		exec := &scriptedExecutor{rows: []pgx.Row{valuesRow(3)}}
		n, err := NewUsageCounter(exec).CountSince(context.Background(), "u1", kind, since)
		if err != nil || n != 3 {
			t.Fatalf("CountSince(%s) = %d, %v", kind, n, err)
		}
		if exec.calls[0].query != query {
			t.Fatalf("CountSince(%s) used the wrong query", kind)
		}
		if got := exec.calls[0].args[1].(time.Time); !got.Equal(since) {
			t.Fatalf("since arg = %v", got)
		}
	}
	if _, err := NewUsageCounter(&scriptedExecutor{}).CountSince(context.Background(), "u1", "videos", since); err == nil {
		t.Fatalf("CountSince(unknown) returned nil error")
	}
}

func TestStatsProgressAssemblesSections(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	exec := &scriptedExecutor{
		rows: []pgx.Row{valuesRow(4, 9, 3, 1, 1, 2)},
		sets: [][][]any{
			{{day, 2, 1}},
			{{"Cells", 3}, {"Atoms", 1}},
			{{"what is osmosis", 2}},
		},
	}
	p, err := NewStatsRepository(exec).Progress(context.Background(), "u1", day.Add(15*time.Hour))
	if err != nil {
		t.Fatalf("Progress returned error: %v", err)
	}
	if p.TotalNotes != 4 || p.ChatsToday != 2 {
		t.Fatalf("totals = %+v", p)
	}
	if len(p.LastSevenDays) != 1 || len(p.Topics) != 2 || len(p.TopQuestions) != 1 {
		t.Fatalf("sections = %+v", p)
	}
	if mid := exec.calls[0].args[1].(time.Time); !mid.Equal(day) {
		t.Fatalf("midnight arg = %v, want %v", mid, day)
	}
	for _, c := range exec.calls {
		if !strings.HasPrefix(c.query, "--sql ") {
			t.Fatalf("query without marker: %q", c.query)
		}
	}
}
