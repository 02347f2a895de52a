package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// SessionRepository handles persistence of generated sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, contract_id, session_date, start_time, end_time, is_online, status, reschedule_count, created_at`

// GetByID returns a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetByContractID returns a contract's sessions in date order.
func (r *SessionRepository) GetByContractID(ctx context.Context, contractID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE contract_id = $1 ORDER BY session_date ASC`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, contractID); err != nil {
		return nil, fmt.Errorf("list contract sessions: %w", err)
	}
	return sessions, nil
}

// AddRange inserts a generated batch of sessions in one statement.
func (r *SessionRepository) AddRange(ctx context.Context, sessions []models.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if sessions[i].CreatedAt.IsZero() {
			sessions[i].CreatedAt = now
		}
	}
	const query = `INSERT INTO sessions (id, contract_id, session_date, start_time, end_time, is_online, status, reschedule_count, created_at)
        VALUES (:id, :contract_id, :session_date, :start_time, :end_time, :is_online, :status, :reschedule_count, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sessions); err != nil {
		return fmt.Errorf("insert session batch: %w", err)
	}
	return nil
}

// DeleteByContractID removes all sessions of a contract. Used before
// regeneration so re-assignment cannot leave duplicate rows behind.
func (r *SessionRepository) DeleteByContractID(ctx context.Context, contractID string) error {
	const query = `DELETE FROM sessions WHERE contract_id = $1`
	if _, err := r.db.ExecContext(ctx, query, contractID); err != nil {
		return fmt.Errorf("delete contract sessions: %w", err)
	}
	return nil
}

// UpdateStatus sets a session's status.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	const query = `UPDATE sessions SET status = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// Reschedule moves a session to a new date/time and bumps its counter.
func (r *SessionRepository) Reschedule(ctx context.Context, id string, date time.Time, startTime, endTime string) error {
	const query = `UPDATE sessions SET session_date = $2, start_time = $3, end_time = $4,
        status = $5, reschedule_count = reschedule_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, date, startTime, endTime, models.SessionStatusRescheduled); err != nil {
		return fmt.Errorf("reschedule session: %w", err)
	}
	return nil
}

// CountBetween counts sessions whose date falls inside [from, to].
func (r *SessionRepository) CountBetween(ctx context.Context, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE session_date BETWEEN $1 AND $2`
	var total int
	if err := r.db.GetContext(ctx, &total, query, from, to); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return total, nil
}
