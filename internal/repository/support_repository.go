package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// SupportRepository handles persistence of support tickets.
type SupportRepository struct {
	db *sqlx.DB
}

// NewSupportRepository constructs the repository.
func NewSupportRepository(db *sqlx.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

const supportColumns = `id, user_id, subject, body, status, response, resolved_by, created_at, updated_at`

// Add persists a new ticket.
func (r *SupportRepository) Add(ctx context.Context, ticket *models.SupportRequest) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = now
	}
	ticket.UpdatedAt = now
	const query = `INSERT INTO support_requests (id, user_id, subject, body, status, response, resolved_by, created_at, updated_at)
        VALUES (:id, :user_id, :subject, :body, :status, :response, :resolved_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ticket); err != nil {
		return fmt.Errorf("create support ticket: %w", err)
	}
	return nil
}

// FindByID returns a ticket by its ID.
func (r *SupportRepository) FindByID(ctx context.Context, id string) (*models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests WHERE id = $1`, supportColumns)
	var ticket models.SupportRequest
	if err := r.db.GetContext(ctx, &ticket, query, id); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListByUser returns a user's tickets, newest first.
func (r *SupportRepository) ListByUser(ctx context.Context, userID string) ([]models.SupportRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM support_requests WHERE user_id = $1 ORDER BY created_at DESC`, supportColumns)
	var tickets []models.SupportRequest
	if err := r.db.SelectContext(ctx, &tickets, query, userID); err != nil {
		return nil, fmt.Errorf("list support tickets: %w", err)
	}
	return tickets, nil
}

// Update persists status/response mutations.
func (r *SupportRepository) Update(ctx context.Context, ticket *models.SupportRequest) error {
	ticket.UpdatedAt = time.Now().UTC()
	const query = `UPDATE support_requests SET status = :status, response = :response,
        resolved_by = :resolved_by, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, ticket); err != nil {
		return fmt.Errorf("update support ticket: %w", err)
	}
	return nil
}
