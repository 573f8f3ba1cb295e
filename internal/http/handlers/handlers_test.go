package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/middleware"
	"studymate/internal/payments"
	"studymate/internal/providers/generation"
	"studymate/internal/study"
)

type stubUsers struct {
	domain.UserRepository
	byID map[string]domain.User
}

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

type stubNotes struct {
	domain.NoteRepository
	created []domain.Note
	err     error
}

func (s *stubNotes) Create(_ context.Context, n *domain.Note) error {
	if s.err != nil {
		return s.err
	}
	n.ID = fmt.Sprintf("n%d", len(s.created)+1)
	n.CreatedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.created = append(s.created, *n)
	return nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Name() string { return "stub" }

func (g stubGenerator) Generate(context.Context, generation.Call) (string, error) {
	return g.reply, g.err
}

type stubCounter int

func (c stubCounter) CountSince(context.Context, string, learning.QuotaKind, time.Time) (int, error) {
	return int(c), nil
}

var (
	free = domain.User{ID: "u-free", Username: "free", Role: domain.UserRoleUser, Plan: domain.UserPlanFree}
	pro  = domain.User{ID: "u-pro", Username: "pro", Role: domain.UserRoleUser, Plan: domain.UserPlanPro}
)

func newTestApp(gen generation.Generator, used int, notes domain.NoteRepository) *App {
	users := stubUsers{byID: map[string]domain.User{free.ID: free, pro.ID: pro}}
	return &App{
		Notes:  study.NewNotes(learning.NewGate(stubCounter(used)), gen, notes, nil, zerolog.Nop()),
		Users:  users,
		Logger: zerolog.Nop(),
	}
}

func withUser(r *http.Request, userID string) *http.Request {
	claims := &middleware.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return r.WithContext(middleware.ContextWithClaims(r.Context(), claims))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var body errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestNotesGenerateResponses(t *testing.T) {
	cases := []struct {
		name     string
		user     domain.User
		used     int
		mode     string
		gen      generation.Generator
		storeErr error
		status   int
		message  string
	}{
		{name: "ok", user: free, mode: "board", gen: stubGenerator{reply: "Photosynthesis notes"}, status: http.StatusCreated},
		{name: "quota", user: free, used: 5, mode: "board", gen: stubGenerator{reply: "x"}, status: http.StatusForbidden, message: "Daily free limit reached. Upgrade to Pro."},
		{name: "pro skips quota", user: pro, used: 50, mode: "board", gen: stubGenerator{reply: "x"}, status: http.StatusCreated},
		{name: "mcq for free", user: free, mode: "mcq", gen: stubGenerator{reply: "x"}, status: http.StatusForbidden, message: "MCQ mode is Pro only. Upgrade to unlock."},
		{name: "invalid mode", user: free, mode: "poster", gen: stubGenerator{reply: "x"}, status: http.StatusBadRequest, message: "Invalid generation mode."},
		{
			name: "misconfigured", user: free, mode: "board",
			gen:    stubGenerator{err: &generation.Error{Kind: generation.KindMisconfigured, Provider: "groq"}},
			status: http.StatusServiceUnavailable, message: "AI service is not configured. Contact administrator.",
		},
		{
			name: "upstream", user: free, mode: "board",
			gen:    stubGenerator{err: &generation.Error{Kind: generation.KindBadStatus, Provider: "groq", Status: 500, Err: errors.New("secret detail")}},
			status: http.StatusBadGateway,
		},
		{name: "save failure", user: free, mode: "board", gen: stubGenerator{reply: "x"}, storeErr: errors.New("db down"), status: http.StatusInternalServerError, message: "Failed to save note."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			notes := &stubNotes{err: tc.storeErr}
			app := newTestApp(tc.gen, tc.used, notes)
			body := fmt.Sprintf(`{"subject":"Photosynthesis","mode":%q}`, tc.mode)
			req := withUser(httptest.NewRequest(http.MethodPost, "/v1/notes/generate", strings.NewReader(body)), tc.user.ID)
			rec := httptest.NewRecorder()
			app.NotesGenerate(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
			if tc.message != "" {
				if got := decodeError(t, rec).Error.Message; got != tc.message {
					t.Fatalf("message = %q, want %q", got, tc.message)
				}
			}
			if strings.Contains(rec.Body.String(), "secret detail") {
				t.Fatalf("upstream detail leaked: %s", rec.Body.String())
			}
		})
	}
}

func TestNotesGenerateBody(t *testing.T) {
	notes := &stubNotes{}
	app := newTestApp(stubGenerator{reply: "Cells are tiny."}, 0, notes)
	req := withUser(httptest.NewRequest(http.MethodPost, "/v1/notes/generate", strings.NewReader(`{"subject":"Cell","mode":"short"}`)), free.ID)
	rec := httptest.NewRecorder()
	app.NotesGenerate(rec, req)

	var got noteDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "n1" || got.Lesson != "Cell" || got.Mode != "short" || got.Content != "Cells are tiny." {
		t.Fatalf("note = %+v", got)
	}
}

func TestCurrentUserMissing(t *testing.T) {
	app := newTestApp(stubGenerator{}, 0, &stubNotes{})
	cases := []struct {
		name string
		req  *http.Request
	}{
		{"no claims", httptest.NewRequest(http.MethodGet, "/v1/me", nil)},
		{"deleted user", withUser(httptest.NewRequest(http.MethodGet, "/v1/me", nil), "gone")},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		app.Me(rec, tc.req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", tc.name, rec.Code)
		}
	}
}

func TestFailMapping(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&learning.QuotaError{Kind: learning.QuotaChat, Limit: 10}, http.StatusForbidden, "quota_exceeded"},
		{&learning.QuotaError{Kind: learning.QuotaTutor, Limit: 10}, http.StatusForbidden, "quota_exceeded"},
		{fmt.Errorf("username taken: %w", domain.ErrEmailTaken), http.StatusConflict, "conflict"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{domain.ErrInvalidSignature, http.StatusBadRequest, "invalid_signature"},
		{fmt.Errorf("note: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{learning.ErrNothingToResume, http.StatusConflict, "nothing_to_resume"},
		{study.ErrNoPendingTest, http.StatusConflict, "no_pending_test"},
		{study.ErrOCRUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{payments.ErrNotConfigured, http.StatusServiceUnavailable, "unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		app.fail(rec, httptest.NewRequest(http.MethodPost, "/x", nil), tc.err)
		if rec.Code != tc.status {
			t.Fatalf("fail(%v) status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		if got := decodeError(t, rec).Error.Code; got != tc.code {
			t.Fatalf("fail(%v) code = %q, want %q", tc.err, got, tc.code)
		}
	}
}

func TestQuotaMessagesPerKind(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	want := map[learning.QuotaKind]string{
		learning.QuotaNotes: "Daily free limit reached. Upgrade to Pro.",
		learning.QuotaChat:  "Daily chat limit reached. Upgrade to Pro.",
		learning.QuotaTutor: "Daily free limit reached (10). Upgrade to Pro for unlimited Tutor access.",
	}
	for kind, msg := range want {
		rec := httptest.NewRecorder()
		app.fail(rec, httptest.NewRequest(http.MethodPost, "/x", nil), &learning.QuotaError{Kind: kind, Limit: kind.DailyCap()})
		if got := decodeError(t, rec).Error.Message; got != msg {
			t.Fatalf("%s message = %q, want %q", kind, got, msg)
		}
	}
}

func TestValidationMessageDropsSentinel(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	app.fail(rec, httptest.NewRequest(http.MethodPost, "/x", nil), fmt.Errorf("password must be 8-72 characters: %w", domain.ErrInvalidInput))
	if got := decodeError(t, rec).Error.Message; got != "password must be 8-72 characters" {
		t.Fatalf("message = %q", got)
	}
}

func TestDecodeBase64(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"aGVsbG8=", "hello", true},
		{"data:image/png;base64,aGVsbG8=", "hello", true},
		{"  ", "", false},
		{"not base64!", "", false},
	}
	for _, tc := range cases {
		got, err := decodeBase64(tc.in)
		if (err == nil) != tc.ok || string(got) != tc.want {
			t.Fatalf("decodeBase64(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestPaymentsConfirmDuplicateIsSuccess(t *testing.T) {
	repo := &dupPayments{}
	svc := payments.NewService(nil, repo, nil, payments.Config{KeySecret: "ks", PricePaise: 9900}, zerolog.Nop())
	app := &App{Payments: svc, Logger: zerolog.Nop()}
	body, _ := json.Marshal(payments.Confirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: payments.Sign("ks", []byte("order_1|pay_1")),
	})
	for i, want := range []string{"", "Payment already processed."} {
		rec := httptest.NewRecorder()
		app.PaymentsConfirm(rec, withUser(httptest.NewRequest(http.MethodPost, "/v1/payments/confirm", bytes.NewReader(body)), pro.ID))
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d status = %d", i, rec.Code)
		}
		var got struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if !got.Success || got.Message != want {
			t.Fatalf("call %d body = %s", i, rec.Body.String())
		}
	}
	if repo.upgrades != 1 {
		t.Fatalf("upgrades = %d, want 1", repo.upgrades)
	}
}

type dupPayments struct {
	seen     map[string]bool
	upgrades int
}

func (d *dupPayments) RecordSuccess(_ context.Context, p *domain.Payment) error {
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[p.OrderID] {
		return domain.ErrDuplicateOperation
	}
	d.seen[p.OrderID] = true
	d.upgrades++
	return nil
}

func (d *dupPayments) RecordFailure(context.Context, *domain.Payment) error { return nil }

func (d *dupPayments) GetByOrder(context.Context, string) (*domain.Payment, error) {
	return nil, domain.ErrNotFound
}

func TestHealthReportsFailingDependency(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), HealthChecks: map[string]func(context.Context) error{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	}}
	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("code = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"postgres":"up"`) || !strings.Contains(body, `"redis":"down"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestOpenAPIJSONConditional(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	rec := httptest.NewRecorder()
	app.OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	etag := rec.Header().Get("ETag")
	if rec.Code != http.StatusOK || etag == "" || !json.Valid(rec.Body.Bytes()) {
		t.Fatalf("first fetch = %d etag=%q", rec.Code, etag)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, req)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Fatalf("conditional fetch = %d len=%d", rec.Code, rec.Body.Len())
	}
}
