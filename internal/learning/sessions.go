package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrStateNotFound is returned by a StateStore for a missing key.
var ErrStateNotFound = errors.New("state not found")

// StateStore holds short-lived per-user blobs between requests.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionTTL is how long idle tutor and memory-test state survives.
const SessionTTL = 24 * time.Hour

// PendingRecall is a memory test awaiting answers.
type PendingRecall struct {
	NoteID    string   `json:"note_id"`
	Questions []string `json:"questions"`
}

// Sessions stores tutor state and pending memory tests as JSON.
type Sessions struct {
	store StateStore
	ttl   time.Duration
}

func NewSessions(store StateStore, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &Sessions{store: store, ttl: ttl}
}

func tutorKey(userID string) string  { return "tutor:" + userID }
func recallKey(userID string) string { return "memory:" + userID }

// Tutor loads a user's tutor state. A missing entry is the idle state.
func (s *Sessions) Tutor(ctx context.Context, userID string) (TutorState, error) {
	var st TutorState
	if err := s.load(ctx, tutorKey(userID), &st); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return TutorState{}, nil
		}
		return TutorState{}, err
	}
	return st, nil
}

func (s *Sessions) SaveTutor(ctx context.Context, userID string, st TutorState) error {
	return s.save(ctx, tutorKey(userID), st)
}

// Recall returns the pending memory test or ErrStateNotFound.
func (s *Sessions) Recall(ctx context.Context, userID string) (PendingRecall, error) {
	var p PendingRecall
	err := s.load(ctx, recallKey(userID), &p)
	return p, err
}

func (s *Sessions) SaveRecall(ctx context.Context, userID string, p PendingRecall) error {
	return s.save(ctx, recallKey(userID), p)
}

func (s *Sessions) ClearRecall(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, recallKey(userID))
}

// Forget drops every blob held for a user.
func (s *Sessions) Forget(ctx context.Context, userID string) error {
	return errors.Join(
		s.store.Delete(ctx, tutorKey(userID)),
		s.store.Delete(ctx, recallKey(userID)),
	)
}

func (s *Sessions) load(ctx context.Context, key string, v any) error {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Sessions) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.store.Set(ctx, key, raw, s.ttl)
}
