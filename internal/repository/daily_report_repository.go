package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edulink-id/tutor-api/internal/models"
)

// DailyReportRepository handles persistence of tutor daily reports.
type DailyReportRepository struct {
	db *sqlx.DB
}

// NewDailyReportRepository constructs the repository.
func NewDailyReportRepository(db *sqlx.DB) *DailyReportRepository {
	return &DailyReportRepository{db: db}
}

const reportColumns = `id, child_id, tutor_id, booking_id, unit_id, on_track, has_homework, notes, created_at`

// GetByID returns a report by its ID.
func (r *DailyReportRepository) GetByID(ctx context.Context, id string) (*models.DailyReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_reports WHERE id = $1`, reportColumns)
	var report models.DailyReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetOldestByChildID returns the child's earliest report, the anchor for
// completion forecasting.
func (r *DailyReportRepository) GetOldestByChildID(ctx context.Context, childID string) (*models.DailyReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_reports WHERE child_id = $1 ORDER BY created_at ASC LIMIT 1`, reportColumns)
	var report models.DailyReport
	if err := r.db.GetContext(ctx, &report, query, childID); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetByChildID returns all of a child's reports, oldest first.
func (r *DailyReportRepository) GetByChildID(ctx context.Context, childID string) ([]models.DailyReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_reports WHERE child_id = $1 ORDER BY created_at ASC`, reportColumns)
	var reports []models.DailyReport
	if err := r.db.SelectContext(ctx, &reports, query, childID); err != nil {
		return nil, fmt.Errorf("list child reports: %w", err)
	}
	return reports, nil
}

// GetByTutorID returns reports a tutor has written, newest first.
func (r *DailyReportRepository) GetByTutorID(ctx context.Context, tutorID string) ([]models.DailyReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_reports WHERE tutor_id = $1 ORDER BY created_at DESC`, reportColumns)
	var reports []models.DailyReport
	if err := r.db.SelectContext(ctx, &reports, query, tutorID); err != nil {
		return nil, fmt.Errorf("list tutor reports: %w", err)
	}
	return reports, nil
}

// GetByBookingID returns the report attached to a session booking, if any.
func (r *DailyReportRepository) GetByBookingID(ctx context.Context, bookingID string) (*models.DailyReport, error) {
	query := fmt.Sprintf(`SELECT %s FROM daily_reports WHERE booking_id = $1`, reportColumns)
	var report models.DailyReport
	if err := r.db.GetContext(ctx, &report, query, bookingID); err != nil {
		return nil, err
	}
	return &report, nil
}

// Add persists a new daily report.
func (r *DailyReportRepository) Add(ctx context.Context, report *models.DailyReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO daily_reports (id, child_id, tutor_id, booking_id, unit_id, on_track, has_homework, notes, created_at)
        VALUES (:id, :child_id, :tutor_id, :booking_id, :unit_id, :on_track, :has_homework, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create daily report: %w", err)
	}
	return nil
}

// CountAll returns the total number of reports.
func (r *DailyReportRepository) CountAll(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM daily_reports`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return total, nil
}
