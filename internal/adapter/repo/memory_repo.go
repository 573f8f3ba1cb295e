package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// MemoryTestRepositoryPG implements domain.MemoryTestRepository.
type MemoryTestRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewMemoryTestRepository(sql infra.SQLExecutor) *MemoryTestRepositoryPG {
	return &MemoryTestRepositoryPG{sql: sql}
}

func (r *MemoryTestRepositoryPG) Create(ctx context.Context, test *domain.MemoryTest) error {
	questions, err := json.Marshal(test.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	scores, err := json.Marshal(test.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	return r.sql.QueryRow(ctx, sqlinline.QInsertMemoryTest,
		test.UserID, test.NoteID, questions, scores, test.Score, test.Total, test.Percentage,
	).Scan(&test.ID, &test.CreatedAt)
}

func (r *MemoryTestRepositoryPG) Get(ctx context.Context, userID, testID string) (*domain.MemoryTest, error) {
	var (
		t                 domain.MemoryTest
		questions, scores []byte
	)
	err := r.sql.QueryRow(ctx, sqlinline.QSelectMemoryTest, testID, userID).
		Scan(&t.ID, &t.UserID, &t.NoteID, &questions, &scores, &t.Score, &t.Total, &t.Percentage, &t.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &t.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &t.Scores); err != nil {
			return nil, fmt.Errorf("decode scores: %w", err)
		}
	}
	return &t, nil
}

var _ domain.MemoryTestRepository = (*MemoryTestRepositoryPG)(nil)
