package study

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"studymate/internal/domain"
	"studymate/internal/infra/google"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
	minUsernameLen = 3
	maxUsernameLen = 40
)

// IDTokenVerifier validates Google ID tokens.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*google.Claims, error)
}

// StateForgetter drops per-user short-lived state on account deletion.
type StateForgetter interface {
	Forget(ctx context.Context, userID string) error
}

type Accounts struct {
	users  domain.UserRepository
	google IDTokenVerifier
	state  StateForgetter
	cost   int
	log    zerolog.Logger
}

func NewAccounts(users domain.UserRepository, verifier IDTokenVerifier, state StateForgetter, log zerolog.Logger) *Accounts {
	return &Accounts{users: users, google: verifier, state: state, cost: bcrypt.DefaultCost, log: log}
}

// Registration is a password sign-up.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *Accounts) Register(ctx context.Context, in Registration) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required: %w", domain.ErrInvalidInput)
	}
	hash, err := a.hash(in.Password)
	if err != nil {
		return nil, err
	}
	return a.users.Create(ctx, &domain.User{Username: username, Email: email, PasswordHash: hash})
}

// Login accepts an email or username. Unknown accounts and wrong passwords
// fail the same way.
func (a *Accounts) Login(ctx context.Context, login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	u, err := a.users.GetByLogin(ctx, login)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// GoogleLogin signs in with a verified Google ID token. A known subject signs
// straight in, a known verified email gets the subject linked, and anything
// else creates a free account without a password.
func (a *Accounts) GoogleLogin(ctx context.Context, idToken string) (*domain.User, error) {
	if a.google == nil {
		return nil, fmt.Errorf("google sign-in is not configured: %w", domain.ErrUnauthorized)
	}
	claims, err := a.google.VerifyIDToken(ctx, strings.TrimSpace(idToken))
	if err != nil {
		a.log.Debug().Err(err).Msg("google id token rejected")
		return nil, domain.ErrUnauthorized
	}
	sub := claims.Subject
	if u, err := a.users.GetByGoogleSub(ctx, sub); err == nil {
		return u, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" || !claims.EmailVerified {
		return nil, fmt.Errorf("google account email is not verified: %w", domain.ErrUnauthorized)
	}
	if u, err := a.users.LinkGoogle(ctx, email, sub); err == nil {
		return u, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	username := googleUsername(claims.Name, email)
	u, err := a.users.Create(ctx, &domain.User{Username: username, Email: email, GoogleSub: sub})
	if errors.Is(err, domain.ErrEmailTaken) {
		// the username collided, since the email was not linkable above
		username = truncate(username, maxUsernameLen-5) + "-" + uuid.NewString()[:4]
		u, err = a.users.Create(ctx, &domain.User{Username: username, Email: email, GoogleSub: sub})
	}
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("user_id", u.ID).Msg("user created from google sign-in")
	return u, nil
}

func (a *Accounts) Me(ctx context.Context, userID string) (*domain.User, error) {
	return a.users.GetByID(ctx, userID)
}

// ChangePassword requires the current password. Accounts created through
// Google have none and may set one directly.
func (a *Accounts) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.HasPassword() && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := a.hash(next)
	if err != nil {
		return err
	}
	return a.users.UpdatePassword(ctx, userID, hash)
}

// Delete removes the account and, through cascades, everything it owns.
// Admin accounts are protected.
func (a *Accounts) Delete(ctx context.Context, userID string) error {
	if err := a.users.Delete(ctx, userID); err != nil {
		return err
	}
	if a.state != nil {
		if err := a.state.Forget(ctx, userID); err != nil {
			a.log.Warn().Err(err).Str("user_id", userID).Msg("forget user state")
		}
	}
	return nil
}

func (a *Accounts) hash(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLen || len(password) > maxPasswordLen {
		return "", fmt.Errorf("password must be %d-%d characters: %w", minPasswordLen, maxPasswordLen, domain.ErrInvalidInput)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters: %w", minUsernameLen, maxUsernameLen, domain.ErrInvalidInput)
	}
	if strings.ContainsAny(username, "@ \t\n") {
		return fmt.Errorf("username may not contain spaces or @: %w", domain.ErrInvalidInput)
	}
	return nil
}

func googleUsername(name, email string) string {
	candidate := strings.Join(strings.Fields(name), "_")
	if utf8.RuneCountInString(candidate) < minUsernameLen {
		candidate, _, _ = strings.Cut(email, "@")
	}
	candidate = strings.ReplaceAll(candidate, "@", "")
	if utf8.RuneCountInString(candidate) < minUsernameLen {
		candidate = "student_" + uuid.NewString()[:8]
	}
	return truncate(candidate, maxUsernameLen)
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
