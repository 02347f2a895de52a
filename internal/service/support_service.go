package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type supportStore interface {
	Add(ctx context.Context, ticket *models.SupportRequest) error
	FindByID(ctx context.Context, id string) (*models.SupportRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.SupportRequest, error)
	Update(ctx context.Context, ticket *models.SupportRequest) error
}

// OpenTicketRequest raises a new support ticket.
type OpenTicketRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// ResolveTicketRequest is a staff response to a ticket.
type ResolveTicketRequest struct {
	Status   models.SupportStatus `json:"status" validate:"required"`
	Response string               `json:"response"`
}

// SupportService manages support tickets and their triage transitions.
type SupportService struct {
	repo      supportStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSupportService constructs SupportService.
func NewSupportService(repo supportStore, validate *validator.Validate, logger *zap.Logger) *SupportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportService{repo: repo, validator: validate, logger: logger}
}

// Open creates a new ticket for the user.
func (s *SupportService) Open(ctx context.Context, userID string, req OpenTicketRequest) (*models.SupportRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ticket payload")
	}
	ticket := &models.SupportRequest{
		UserID:  userID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  models.SupportStatusOpen,
	}
	if err := s.repo.Add(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create ticket")
	}
	return ticket, nil
}

// Respond moves a ticket along the triage state machine, attaching the
// staff response when given.
func (s *SupportService) Respond(ctx context.Context, ticketID, staffID string, req ResolveTicketRequest) (*models.SupportRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ticket")
	}
	if !ticket.Status.CanTransitionTo(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move ticket from %s to %s", ticket.Status, req.Status))
	}
	ticket.Status = req.Status
	if req.Response != "" {
		ticket.Response = &req.Response
		ticket.ResolvedBy = &staffID
	}
	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ticket")
	}
	return ticket, nil
}

// ListByUser returns the user's tickets, newest first.
func (s *SupportService) ListByUser(ctx context.Context, userID string) ([]models.SupportRequest, error) {
	tickets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tickets")
	}
	return tickets, nil
}
