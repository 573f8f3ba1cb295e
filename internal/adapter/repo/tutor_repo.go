package repo

import (
	"context"
	"fmt"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// TutorRepositoryPG implements domain.TutorRepository.
type TutorRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewTutorRepository(sql infra.SQLExecutor) *TutorRepositoryPG {
	return &TutorRepositoryPG{sql: sql}
}

func (r *TutorRepositoryPG) AddMessage(ctx context.Context, msg *domain.TutorMessage) error {
	return r.sql.QueryRow(ctx, sqlinline.QInsertTutorMessage, msg.UserID, msg.Kind, msg.Question, msg.Answer).
		Scan(&msg.ID, &msg.CreatedAt)
}

func (r *TutorRepositoryPG) AddProgress(ctx context.Context, p *domain.StudentProgress) error {
	return r.sql.QueryRow(ctx, sqlinline.QInsertStudentProgress,
		p.UserID, p.Topic, p.LastQuestion, p.Language, p.Difficulty, p.Notes,
	).Scan(&p.ID, &p.CreatedAt)
}

// ListProgress returns the newest progress rows first.
func (r *TutorRepositoryPG) ListProgress(ctx context.Context, userID string, limit int) ([]domain.StudentProgress, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListStudentProgress, userID, clampLimit(limit, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.StudentProgress
	for rows.Next() {
		var p domain.StudentProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.Topic, &p.LastQuestion, &p.Language, &p.Difficulty, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

var _ domain.TutorRepository = (*TutorRepositoryPG)(nil)
