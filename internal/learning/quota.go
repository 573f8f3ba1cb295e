package learning

import (
	"context"
	"fmt"
	"time"

	"studymate/internal/domain"
)

// QuotaKind is a category of daily-capped action.
type QuotaKind string

const (
	QuotaNotes QuotaKind = "notes"
	QuotaChat  QuotaKind = "chat"
	QuotaTutor QuotaKind = "tutor_messages"
)

// DailyCap is the free-plan cap for k.
func (k QuotaKind) DailyCap() int {
	switch k {
	case QuotaNotes:
		return 5
	case QuotaChat, QuotaTutor:
		return 10
	default:
		return 0
	}
}

// UsageCounter counts persisted records of a kind created since a moment.
type UsageCounter interface {
	CountSince(ctx context.Context, userID string, kind QuotaKind, since time.Time) (int, error)
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Unlimited bool
	Used      int
	Limit     int
}

// QuotaError reports a free-plan daily cap being reached.
type QuotaError struct {
	Kind  QuotaKind
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily %s limit of %d reached", e.Kind, e.Limit)
}

func (e *QuotaError) Unwrap() error { return domain.ErrQuotaExceeded }

// Gate enforces free-plan daily caps on calendar days in server-local time.
// Checks are read-only: the record persisted after a successful generation
// is what moves the count. Two concurrent requests may both pass a check
// before either persists, so enforcement is best-effort.
type Gate struct {
	counter UsageCounter
	now     func() time.Time
}

// NewGate builds a Gate over counter.
func NewGate(counter UsageCounter) *Gate {
	return &Gate{counter: counter, now: time.Now}
}

// Check reports whether user may perform one more kind action today.
func (g *Gate) Check(ctx context.Context, user domain.User, kind QuotaKind) (Decision, error) {
	limit := kind.DailyCap()
	if limit == 0 {
		return Decision{}, fmt.Errorf("unknown quota kind %q", kind)
	}
	if user.Unlimited() {
		return Decision{Allowed: true, Unlimited: true}, nil
	}
	used, err := g.counter.CountSince(ctx, user.ID, kind, StartOfDay(g.now()))
	if err != nil {
		return Decision{}, fmt.Errorf("count %s usage: %w", kind, err)
	}
	return Decision{Allowed: used < limit, Used: used, Limit: limit}, nil
}

// Allow is Check returning a *QuotaError when the cap is reached.
func (g *Gate) Allow(ctx context.Context, user domain.User, kind QuotaKind) error {
	d, err := g.Check(ctx, user, kind)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return &QuotaError{Kind: kind, Limit: d.Limit}
	}
	return nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Feature names a pro-only capability.
type Feature string

const (
	FeatureMCQ        Feature = "MCQ mode"
	FeatureMemoryTest Feature = "Memory test"
	FeatureEvaluation Feature = "Answer evaluation"
	FeatureDownload   Feature = "Note download"
)

// ProOnlyError reports a feature gated behind the pro plan.
type ProOnlyError struct {
	Feature Feature
}

func (e *ProOnlyError) Error() string {
	return fmt.Sprintf("%s is Pro only", e.Feature)
}

func (e *ProOnlyError) Unwrap() error { return domain.ErrProOnly }

// RequirePro fails unless user effectively holds the pro plan.
func RequirePro(user domain.User, feature Feature) error {
	if user.EffectivePlan() == domain.UserPlanPro {
		return nil
	}
	return &ProOnlyError{Feature: feature}
}
