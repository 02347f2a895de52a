package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type reportStore interface {
	GetByID(ctx context.Context, id string) (*models.DailyReport, error)
	GetByChildID(ctx context.Context, childID string) ([]models.DailyReport, error)
	GetByTutorID(ctx context.Context, tutorID string) ([]models.DailyReport, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.DailyReport, error)
	Add(ctx context.Context, report *models.DailyReport) error
}

type bookingReader interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)
}

type notifier interface {
	Send(userID string, event Event) error
}

// CreateDailyReportRequest is a tutor's end-of-session report payload.
type CreateDailyReportRequest struct {
	ChildID     string `json:"child_id" validate:"required"`
	BookingID   string `json:"booking_id" validate:"required"`
	UnitID      string `json:"unit_id" validate:"required"`
	OnTrack     bool   `json:"on_track"`
	HasHomework bool   `json:"has_homework"`
	Notes       string `json:"notes"`
}

// ReportService manages tutor daily reports, one per completed session.
type ReportService struct {
	repo      reportStore
	bookings  bookingReader
	hub       notifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs ReportService. hub may be nil.
func NewReportService(repo reportStore, bookings bookingReader, hub notifier, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, bookings: bookings, hub: hub, validator: validate, logger: logger}
}

// Create validates and persists a daily report, rejecting duplicates for
// the same booking, then pushes a notification to the child's parent via
// the hub when one is connected.
func (s *ReportService) Create(ctx context.Context, tutorID string, req CreateDailyReportRequest) (*models.DailyReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if _, err := s.bookings.GetByID(ctx, req.BookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if _, err := s.repo.GetByBookingID(ctx, req.BookingID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report already exists for session")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing report")
	}

	report := &models.DailyReport{
		ChildID:     req.ChildID,
		TutorID:     tutorID,
		BookingID:   req.BookingID,
		UnitID:      req.UnitID,
		OnTrack:     req.OnTrack,
		HasHomework: req.HasHomework,
		Notes:       req.Notes,
	}
	if err := s.repo.Add(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	if s.hub != nil {
		if err := s.hub.Send(req.ChildID, Event{Type: "daily_report", Payload: report.ID}); err != nil {
			s.logger.Sugar().Debugw("report notification skipped", "child_id", req.ChildID, "error", err)
		}
	}
	return report, nil
}

// GetByID returns one report.
func (s *ReportService) GetByID(ctx context.Context, id string) (*models.DailyReport, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}

// ListByChild returns a child's report history, oldest first.
func (s *ReportService) ListByChild(ctx context.Context, childID string) ([]models.DailyReport, error) {
	reports, err := s.repo.GetByChildID(ctx, childID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// ListByTutor returns the reports a tutor has written, newest first.
func (s *ReportService) ListByTutor(ctx context.Context, tutorID string) ([]models.DailyReport, error) {
	reports, err := s.repo.GetByTutorID(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}
