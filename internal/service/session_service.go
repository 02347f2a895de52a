package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type sessionMutator interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByContractID(ctx context.Context, contractID string) ([]models.Session, error)
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	Reschedule(ctx context.Context, id string, date time.Time, startTime, endTime string) error
}

type contractPackageReader interface {
	GetByIDWithPackage(ctx context.Context, id string) (*models.ContractWithPackage, error)
}

// RescheduleSessionRequest moves one session to a new slot.
type RescheduleSessionRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// SessionService handles per-session mutations after generation.
type SessionService struct {
	repo      sessionMutator
	contracts contractPackageReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs SessionService.
func NewSessionService(repo sessionMutator, contracts contractPackageReader, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, contracts: contracts, validator: validate, logger: logger}
}

// ListByContract returns the contract's session calendar in date order.
func (s *SessionService) ListByContract(ctx context.Context, contractID string) ([]models.Session, error) {
	sessions, err := s.repo.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// UpdateStatus marks a session completed or cancelled.
func (s *SessionService) UpdateStatus(ctx context.Context, sessionID string, status models.SessionStatus) error {
	if status != models.SessionStatusCompleted && status != models.SessionStatusCancelled {
		return appErrors.Clone(appErrors.ErrValidation, "status must be completed or cancelled")
	}
	if _, err := s.repo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if err := s.repo.UpdateStatus(ctx, sessionID, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return nil
}

// Reschedule moves a session within its contract's package allowance.
func (s *SessionService) Reschedule(ctx context.Context, sessionID string, req RescheduleSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := validateClockWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	contract, err := s.contracts.GetByIDWithPackage(ctx, session.ContractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	if session.RescheduleCount >= contract.MaxReschedules {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "reschedule allowance exhausted")
	}
	if date.Before(truncateToDay(contract.StartDate)) || date.After(truncateToDay(contract.EndDate)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "new date outside contract range")
	}
	if err := s.repo.Reschedule(ctx, sessionID, date, req.StartTime, req.EndTime); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule session")
	}
	updated, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload session")
	}
	return updated, nil
}
