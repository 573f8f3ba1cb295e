package repo

import (
	"context"
	"fmt"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// NoteRepositoryPG implements domain.NoteRepository.
type NoteRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewNoteRepository(sql infra.SQLExecutor) *NoteRepositoryPG {
	return &NoteRepositoryPG{sql: sql}
}

// Create inserts note and fills in its ID and timestamp.
func (r *NoteRepositoryPG) Create(ctx context.Context, note *domain.Note) error {
	return r.sql.QueryRow(ctx, sqlinline.QInsertNote, note.UserID, note.Lesson, note.Mode, note.Content).
		Scan(&note.ID, &note.CreatedAt)
}

func (r *NoteRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Note, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListNotesByUser, userID, clampLimit(limit, 200))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Lesson, &n.Mode, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns a note owned by userID.
func (r *NoteRepositoryPG) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	var n domain.Note
	err := r.sql.QueryRow(ctx, sqlinline.QSelectNoteByID, noteID, userID).
		Scan(&n.ID, &n.UserID, &n.Lesson, &n.Mode, &n.Content, &n.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepositoryPG) UpdateContent(ctx context.Context, userID, noteID, content string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateNoteContent, noteID, userID, content)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NoteRepositoryPG) Delete(ctx context.Context, userID, noteID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteNote, noteID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.NoteRepository = (*NoteRepositoryPG)(nil)
