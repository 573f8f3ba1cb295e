package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// Create inserts a new free-plan user. Email and username are unique,
// case-insensitively.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		strings.TrimSpace(user.Username),
		strings.TrimSpace(user.Email),
		user.PasswordHash,
		user.GoogleSub,
	)
	created, err := scanUser(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id))
}

// GetByLogin fetches a user by email or username. An email match wins.
func (r *UserRepositoryPG) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByLogin, strings.TrimSpace(login)))
}

// GetByGoogleSub fetches a user by Google subject identifier.
func (r *UserRepositoryPG) GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QSelectUserByGoogleSub, sub))
}

// LinkGoogle attaches a Google subject to the account registered with email.
func (r *UserRepositoryPG) LinkGoogle(ctx context.Context, email, sub string) (*domain.User, error) {
	return scanUser(r.sql.QueryRow(ctx, sqlinline.QLinkGoogleSub, email, sub))
}

func (r *UserRepositoryPG) UpdatePassword(ctx context.Context, userID, hash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPassword, userID, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryPG) SetPlan(ctx context.Context, userID string, plan domain.UserPlan) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateUserPlan, userID, string(plan))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetPlanByEmail changes the plan of the account registered with email and
// returns its ID.
func (r *UserRepositoryPG) SetPlanByEmail(ctx context.Context, email string, plan domain.UserPlan) (string, error) {
	var id string
	if err := r.sql.QueryRow(ctx, sqlinline.QUpdateUserPlanByEmail, email, string(plan)).Scan(&id); err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// Delete removes a non-admin user and, through cascades, everything they own.
func (r *UserRepositoryPG) Delete(ctx context.Context, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteUser, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns the newest users with their note counts.
func (r *UserRepositoryPG) List(ctx context.Context, limit int) ([]domain.UserSummary, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListUsersWithNoteCounts, clampLimit(limit, 500))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.UserSummary
	for rows.Next() {
		var s domain.UserSummary
		var role, plan string
		if err := rows.Scan(&s.ID, &s.Username, &s.Email, &role, &plan, &s.CreatedAt, &s.NoteCount); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		s.Role = domain.UserRole(role)
		s.Plan = domain.ParsePlan(plan)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role, plan string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GoogleSub, &role, &plan, &u.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.Plan = domain.ParsePlan(plan)
	return &u, nil
}

func clampLimit(limit, max int) int {
	if limit <= 0 || limit > max {
		return max
	}
	return limit
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
