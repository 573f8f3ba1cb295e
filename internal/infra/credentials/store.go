package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// Provider names accepted by the key store. They match the generation
// backend names.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

var providers = []string{ProviderGroq, ProviderAnthropic, ProviderOpenAI}

// ErrUnknownProvider is returned for provider names outside the known set.
var ErrUnknownProvider = errors.New("unknown provider")

// Entry is a stored key as shown by admin tooling.
type Entry struct {
	Provider  string
	Masked    string
	UpdatedAt time.Time
}

// Store keeps generation API keys in the integration_tokens table.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored key for provider, or "" when none is stored.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// Set stores key for provider, replacing any previous value.
func (s *Store) Set(ctx context.Context, provider, key string) error {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !lo.Contains(providers, provider) {
		return fmt.Errorf("%w %q", ErrUnknownProvider, provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, key, []byte(`{"source":"studyctl"}`))
	return err
}

// List returns every stored key, masked.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.sql.Query(ctx, sqlinline.QListIntegrationTokens)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var token string
		if err := rows.Scan(&e.Provider, &token, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Masked = Mask(token)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Resolve returns envValue when set and falls back to the stored key.
func (s *Store) Resolve(ctx context.Context, provider, envValue string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Token(ctx, provider)
}

// Mask keeps the last four characters of a key.
func Mask(token string) string {
	token = strings.TrimSpace(token)
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
