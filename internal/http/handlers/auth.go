package handlers

import (
	"context"
	"net/http"
	"time"

	"studymate/internal/domain"
	"studymate/internal/middleware"
	"studymate/internal/study"
)

const defaultTokenTTL = 72 * time.Hour

type userDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Plan        string    `json:"plan"`
	Role        string    `json:"role"`
	HasPassword bool      `json:"has_password"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Plan:        string(u.EffectivePlan()),
		Role:        string(u.Role),
		HasPassword: u.HasPassword(),
		CreatedAt:   u.CreatedAt,
	}
}

type sessionResponse struct {
	Token     string  `json:"token"`
	CSRFToken string  `json:"csrf_token"`
	User      userDTO `json:"user"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *App) Register(w http.ResponseWriter, r *http.Request) {
	var req study.Registration
	if !a.decode(w, r, &req) {
		return
	}
	u, err := a.Accounts.Register(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", u.ID).Msg("user registered")
	a.issueSession(w, *u, http.StatusCreated)
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decode(w, r, &req) {
		return
	}
	login := req.Login
	if login == "" {
		login = req.Email
	}
	u, err := a.Accounts.Login(r.Context(), login, req.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.issueSession(w, *u, http.StatusOK)
}

func (a *App) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	u, err := a.Accounts.GoogleLogin(ctx, req.IDToken)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.issueSession(w, *u, http.StatusOK)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, toUserDTO(u))
}

func (a *App) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	var req changePasswordRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Accounts.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if err := a.Accounts.Delete(r.Context(), userID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", userID).Msg("account deleted")
	w.WriteHeader(http.StatusNoContent)
}

// issueSession signs a token carrying a fresh CSRF secret. Clients echo the
// secret in the X-CSRF-Token header on mutating requests.
func (a *App) issueSession(w http.ResponseWriter, u domain.User, status int) {
	csrf, err := middleware.NewCSRFToken()
	if err != nil {
		a.Logger.Error().Err(err).Msg("csrf token")
		a.error(w, http.StatusInternalServerError, "internal", "failed to start session")
		return
	}
	ttl := a.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, err := middleware.SignToken(a.JWTSecret, u.ID, string(u.EffectivePlan()), string(u.Role), csrf, ttl)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, status, sessionResponse{Token: token, CSRFToken: csrf, User: toUserDTO(u)})
}
