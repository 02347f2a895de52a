package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// UserRepository handles account and child lookups.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, role, active, created_at, updated_at`

// FindByEmail returns an account by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns an account by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindChildByID returns a child profile by ID.
func (r *UserRepository) FindChildByID(ctx context.Context, id string) (*models.Child, error) {
	const query = `SELECT id, parent_id, full_name, birth_date, grade, created_at FROM children WHERE id = $1`
	var child models.Child
	if err := r.db.GetContext(ctx, &child, query, id); err != nil {
		return nil, err
	}
	return &child, nil
}

// ListChildrenByParent returns a parent's registered children.
func (r *UserRepository) ListChildrenByParent(ctx context.Context, parentID string) ([]models.Child, error) {
	const query = `SELECT id, parent_id, full_name, birth_date, grade, created_at FROM children WHERE parent_id = $1 ORDER BY full_name ASC`
	var children []models.Child
	if err := r.db.SelectContext(ctx, &children, query, parentID); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return children, nil
}

// CountActiveTutors counts active tutor accounts.
func (r *UserRepository) CountActiveTutors(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = $1 AND active = TRUE`
	var total int
	if err := r.db.GetContext(ctx, &total, query, models.RoleTutor); err != nil {
		return 0, fmt.Errorf("count tutors: %w", err)
	}
	return total, nil
}
