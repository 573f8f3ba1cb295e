package study

import (
	"context"
	"time"

	"studymate/internal/domain"
)

// Dashboard serves the per-user progress page and the admin overview.
type Dashboard struct {
	stats domain.StatsRepository
	users domain.UserRepository
	now   clock
}

func NewDashboard(stats domain.StatsRepository, users domain.UserRepository) *Dashboard {
	return &Dashboard{stats: stats, users: users, now: time.Now}
}

func (d *Dashboard) Progress(ctx context.Context, userID string) (*domain.ProgressSummary, error) {
	return d.stats.Progress(ctx, userID, d.now())
}

func (d *Dashboard) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	return d.stats.AdminStats(ctx)
}

func (d *Dashboard) Users(ctx context.Context, limit int) ([]domain.UserSummary, error) {
	return d.users.List(ctx, limit)
}

// DeleteUser removes a user on an admin's behalf. Admin accounts cannot be
// deleted and report ErrNotFound.
func (d *Dashboard) DeleteUser(ctx context.Context, userID string) error {
	return d.users.Delete(ctx, userID)
}
