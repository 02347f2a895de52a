package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// ContractRepository handles persistence of tutoring contracts.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository constructs the repository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `id, parent_id, child_id, package_id, main_tutor_id, start_date, end_date,
        day_mask, start_time, end_time, is_online, status, created_at, updated_at`

// GetByID returns a contract by its ID.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	query := fmt.Sprintf(`SELECT %s FROM contracts WHERE id = $1`, contractColumns)
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, query, id); err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetByIDWithPackage returns a contract joined with its purchased package.
func (r *ContractRepository) GetByIDWithPackage(ctx context.Context, id string) (*models.ContractWithPackage, error) {
	const query = `SELECT c.id, c.parent_id, c.child_id, c.package_id, c.main_tutor_id, c.start_date, c.end_date,
        c.day_mask, c.start_time, c.end_time, c.is_online, c.status, c.created_at, c.updated_at,
        p.session_count, p.max_reschedules, p.duration_days
        FROM contracts c
        JOIN payment_packages p ON p.id = c.package_id
        WHERE c.id = $1`
	var contract models.ContractWithPackage
	if err := r.db.GetContext(ctx, &contract, query, id); err != nil {
		return nil, err
	}
	return &contract, nil
}

const contractDetailSelect = `SELECT c.id, c.parent_id, c.child_id, c.package_id, c.main_tutor_id, c.start_date, c.end_date,
        c.day_mask, c.start_time, c.end_time, c.is_online, c.status, c.created_at, c.updated_at,
        ch.full_name AS child_name, p.name AS package_name, t.full_name AS main_tutor_name, NULL AS center_name
        FROM contracts c
        LEFT JOIN children ch ON ch.id = c.child_id
        LEFT JOIN payment_packages p ON p.id = c.package_id
        LEFT JOIN users t ON t.id = c.main_tutor_id`

// GetByParentID returns contract detail projections for one parent.
func (r *ContractRepository) GetByParentID(ctx context.Context, parentID string) ([]models.ContractDetail, error) {
	query := contractDetailSelect + ` WHERE c.parent_id = $1 ORDER BY c.created_at DESC`
	var details []models.ContractDetail
	if err := r.db.SelectContext(ctx, &details, query, parentID); err != nil {
		return nil, fmt.Errorf("list parent contracts: %w", err)
	}
	return details, nil
}

// GetAllWithDetails returns all contract detail projections, newest first.
func (r *ContractRepository) GetAllWithDetails(ctx context.Context) ([]models.ContractDetail, error) {
	query := contractDetailSelect + ` ORDER BY c.created_at DESC`
	var details []models.ContractDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return details, nil
}

// Add persists a new contract.
func (r *ContractRepository) Add(ctx context.Context, contract *models.Contract) error {
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = now
	}
	contract.UpdatedAt = now
	const query = `INSERT INTO contracts (id, parent_id, child_id, package_id, main_tutor_id, start_date, end_date,
        day_mask, start_time, end_time, is_online, status, created_at, updated_at)
        VALUES (:id, :parent_id, :child_id, :package_id, :main_tutor_id, :start_date, :end_date,
        :day_mask, :start_time, :end_time, :is_online, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, contract); err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// UpdateStatus persists a status change.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	const query = `UPDATE contracts SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	return nil
}

// AssignMainTutor sets the main tutor reference.
func (r *ContractRepository) AssignMainTutor(ctx context.Context, id, tutorID string) error {
	const query = `UPDATE contracts SET main_tutor_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, tutorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign main tutor: %w", err)
	}
	return nil
}

// CountByStatus groups contracts by status.
func (r *ContractRepository) CountByStatus(ctx context.Context) (map[models.ContractStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS total FROM contracts GROUP BY status`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count contracts: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	counts := make(map[models.ContractStatus]int)
	for rows.Next() {
		var status models.ContractStatus
		var total int
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("scan contract count: %w", err)
		}
		counts[status] = total
	}
	return counts, rows.Err()
}
