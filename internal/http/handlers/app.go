package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"studymate/internal/domain"
	"studymate/internal/middleware"
	"studymate/internal/payments"
	"studymate/internal/study"
)

// maxBodyBytes bounds JSON bodies. Base64 images and audio fit comfortably.
const maxBodyBytes = 16 << 20

// App carries the services behind every route.
type App struct {
	Accounts  *study.Accounts
	Notes     *study.Notes
	Chat      *study.Chat
	Tutor     *study.Tutor
	Memory    *study.MemoryTests
	Evaluator *study.Evaluator
	Dashboard *study.Dashboard
	Voice     *study.Voice
	Payments  *payments.Service

	Users     domain.UserRepository
	JWTSecret string
	TokenTTL  time.Duration
	Logger    zerolog.Logger

	// HealthChecks are probed by /healthz, keyed by dependency name.
	HealthChecks map[string]func(context.Context) error
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, errorEnvelope{Error: errorDetail{Code: errCode, Message: msg}})
}

// decode reads a JSON body into v and writes a 400 on failure.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// currentUser loads the caller named by the session token. Plan and role are
// read from storage so an upgrade applies without a new token.
func (a *App) currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return domain.User{}, false
	}
	u, err := a.Users.GetByID(r.Context(), userID)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "account no longer exists")
		return domain.User{}, false
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("load current user")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load user")
		return domain.User{}, false
	}
	return *u, true
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decodeBase64 accepts plain base64 or a data URL.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	if s == "" {
		return nil, errors.New("empty payload")
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return b, nil
}
