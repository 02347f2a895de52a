package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// UnitRepository handles persistence of curriculum units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs the repository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

const unitColumns = `id, curriculum_id, name, order_index, active, created_at, updated_at`

// GetByID returns a unit by its ID.
func (r *UnitRepository) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE id = $1`, unitColumns)
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

// GetByCurriculumID returns all units of a curriculum ordered by index.
func (r *UnitRepository) GetByCurriculumID(ctx context.Context, curriculumID string) ([]models.Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE curriculum_id = $1 ORDER BY order_index ASC`, unitColumns)
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list curriculum units: %w", err)
	}
	return units, nil
}

// GetActiveByCurriculumID returns active units ordered by index.
func (r *UnitRepository) GetActiveByCurriculumID(ctx context.Context, curriculumID string) ([]models.Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE curriculum_id = $1 AND active = TRUE ORDER BY order_index ASC`, unitColumns)
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, curriculumID); err != nil {
		return nil, fmt.Errorf("list active units: %w", err)
	}
	return units, nil
}

// GetMaxUnitOrder returns the highest order index within a curriculum,
// zero when the curriculum has no units yet.
func (r *UnitRepository) GetMaxUnitOrder(ctx context.Context, curriculumID string) (int, error) {
	const query = `SELECT COALESCE(MAX(order_index), 0) FROM units WHERE curriculum_id = $1`
	var max int
	if err := r.db.GetContext(ctx, &max, query, curriculumID); err != nil {
		return 0, fmt.Errorf("max unit order: %w", err)
	}
	return max, nil
}

// ExistsByName checks name uniqueness within a curriculum.
func (r *UnitRepository) ExistsByName(ctx context.Context, curriculumID, name string) (bool, error) {
	const query = `SELECT 1 FROM units WHERE curriculum_id = $1 AND name = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, curriculumID, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check unit name: %w", err)
	}
	return true, nil
}

// GetByName returns a unit by curriculum and display name.
func (r *UnitRepository) GetByName(ctx context.Context, curriculumID, name string) (*models.Unit, error) {
	query := fmt.Sprintf(`SELECT %s FROM units WHERE curriculum_id = $1 AND name = $2`, unitColumns)
	var unit models.Unit
	if err := r.db.GetContext(ctx, &unit, query, curriculumID, name); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Add persists a new unit.
func (r *UnitRepository) Add(ctx context.Context, unit *models.Unit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now
	const query = `INSERT INTO units (id, curriculum_id, name, order_index, active, created_at, updated_at)
        VALUES (:id, :curriculum_id, :name, :order_index, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Update persists name/active changes to a unit.
func (r *UnitRepository) Update(ctx context.Context, unit *models.Unit) error {
	unit.UpdatedAt = time.Now().UTC()
	const query = `UPDATE units SET name = :name, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// GetCurriculumByID returns curriculum metadata.
func (r *UnitRepository) GetCurriculumByID(ctx context.Context, id string) (*models.Curriculum, error) {
	const query = `SELECT id, name, created_at FROM curricula WHERE id = $1`
	var curriculum models.Curriculum
	if err := r.db.GetContext(ctx, &curriculum, query, id); err != nil {
		return nil, err
	}
	return &curriculum, nil
}
