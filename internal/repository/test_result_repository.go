package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// TestResultRepository handles persistence of child test scores.
type TestResultRepository struct {
	db *sqlx.DB
}

// NewTestResultRepository constructs the repository.
func NewTestResultRepository(db *sqlx.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

// Add persists a test result.
func (r *TestResultRepository) Add(ctx context.Context, result *models.TestResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO test_results (id, child_id, unit_id, subject, score, max_score, taken_at, created_at)
        VALUES (:id, :child_id, :unit_id, :subject, :score, :max_score, :taken_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("create test result: %w", err)
	}
	return nil
}

// ListByChild returns a child's test results, newest first.
func (r *TestResultRepository) ListByChild(ctx context.Context, childID string) ([]models.TestResult, error) {
	const query = `SELECT id, child_id, unit_id, subject, score, max_score, taken_at, created_at
        FROM test_results WHERE child_id = $1 ORDER BY taken_at DESC`
	var results []models.TestResult
	if err := r.db.SelectContext(ctx, &results, query, childID); err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}
	return results, nil
}

// AveragesByChild aggregates a child's scores per subject.
func (r *TestResultRepository) AveragesByChild(ctx context.Context, childID string) (map[string]float64, map[string]int, error) {
	const query = `SELECT subject, AVG(score / NULLIF(max_score, 0) * 100) AS avg_score, COUNT(*) AS total
        FROM test_results WHERE child_id = $1 GROUP BY subject`
	rows, err := r.db.QueryxContext(ctx, query, childID)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate test results: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	averages := make(map[string]float64)
	counts := make(map[string]int)
	for rows.Next() {
		var subject string
		var avg float64
		var total int
		if err := rows.Scan(&subject, &avg, &total); err != nil {
			return nil, nil, fmt.Errorf("scan test aggregate: %w", err)
		}
		averages[subject] = avg
		counts[subject] = total
	}
	return averages, counts, rows.Err()
}
