package repo

import (
	"context"
	"fmt"
	"time"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/learning"
	"studymate/internal/sqlinline"
)

// Dashboard sizes.
const (
	progressTopicLimit    = 10
	progressQuestionLimit = 10
)

// StatsRepositoryPG implements domain.StatsRepository.
type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

func (r *StatsRepositoryPG) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var s domain.AdminStats
	if err := r.sql.QueryRow(ctx, sqlinline.QAdminStats).
		Scan(&s.TotalUsers, &s.ProUsers, &s.FreeUsers, &s.TotalNotes, &s.Revenue); err != nil {
		return nil, err
	}
	return &s, nil
}

// Progress assembles the dashboard for userID. today fixes the calendar day
// used for the "today" counters and the seven-day window.
func (r *StatsRepositoryPG) Progress(ctx context.Context, userID string, today time.Time) (*domain.ProgressSummary, error) {
	var p domain.ProgressSummary
	midnight := learning.StartOfDay(today)
	if err := r.sql.QueryRow(ctx, sqlinline.QProgressTotals, userID, midnight).
		Scan(&p.TotalNotes, &p.TotalChats, &p.TutorMessages, &p.MemoryTests, &p.NotesToday, &p.ChatsToday); err != nil {
		return nil, fmt.Errorf("progress totals: %w", err)
	}

	rows, err := r.sql.Query(ctx, sqlinline.QProgressDaily, userID, midnight)
	if err != nil {
		return nil, fmt.Errorf("progress daily: %w", err)
	}
	for rows.Next() {
		var d domain.DayActivity
		if err := rows.Scan(&d.Day, &d.Chats, &d.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan daily: %w", err)
		}
		p.LastSevenDays = append(p.LastSevenDays, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if p.Topics, err = r.labelCounts(ctx, sqlinline.QProgressTopics, userID, progressTopicLimit); err != nil {
		return nil, fmt.Errorf("progress topics: %w", err)
	}
	if p.TopQuestions, err = r.labelCounts(ctx, sqlinline.QProgressTopQuestions, userID, progressQuestionLimit); err != nil {
		return nil, fmt.Errorf("progress questions: %w", err)
	}
	return &p, nil
}

func (r *StatsRepositoryPG) labelCounts(ctx context.Context, query, userID string, limit int) ([]domain.LabelCount, error) {
	rows, err := r.sql.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LabelCount
	for rows.Next() {
		var lc domain.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		items = append(items, lc)
	}
	return items, rows.Err()
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
