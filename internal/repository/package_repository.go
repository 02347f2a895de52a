package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// PackageRepository reads immutable payment package reference data.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository constructs the repository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `id, name, curriculum_id, session_count, max_reschedules, duration_days, price, created_at`

// GetByID returns a package by its ID.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*models.PaymentPackage, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_packages WHERE id = $1`, packageColumns)
	var pkg models.PaymentPackage
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// GetPackageByCurriculumID returns the package attached to a curriculum.
func (r *PackageRepository) GetPackageByCurriculumID(ctx context.Context, curriculumID string) (*models.PaymentPackage, error) {
	query := fmt.Sprintf(`SELECT %s FROM payment_packages WHERE curriculum_id = $1 ORDER BY created_at DESC LIMIT 1`, packageColumns)
	var pkg models.PaymentPackage
	if err := r.db.GetContext(ctx, &pkg, query, curriculumID); err != nil {
		return nil, err
	}
	return &pkg, nil
}
