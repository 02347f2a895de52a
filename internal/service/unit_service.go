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

type unitStore interface {
	GetByID(ctx context.Context, id string) (*models.Unit, error)
	GetByCurriculumID(ctx context.Context, curriculumID string) ([]models.Unit, error)
	GetMaxUnitOrder(ctx context.Context, curriculumID string) (int, error)
	ExistsByName(ctx context.Context, curriculumID, name string) (bool, error)
	GetByName(ctx context.Context, curriculumID, name string) (*models.Unit, error)
	Add(ctx context.Context, unit *models.Unit) error
	Update(ctx context.Context, unit *models.Unit) error
	GetCurriculumByID(ctx context.Context, id string) (*models.Curriculum, error)
}

// CreateUnitRequest appends a unit to the end of a curriculum.
type CreateUnitRequest struct {
	CurriculumID string `json:"curriculum_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
}

// UpdateUnitRequest renames or (de)activates a unit.
type UpdateUnitRequest struct {
	Name   string `json:"name" validate:"required"`
	Active bool   `json:"active"`
}

// UnitService manages curriculum units and their dense ordering.
type UnitService struct {
	repo      unitStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitService constructs UnitService.
func NewUnitService(repo unitStore, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{repo: repo, validator: validate, logger: logger}
}

// Create appends a unit at max order + 1, keeping names unique within
// the curriculum.
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}
	if _, err := s.repo.GetCurriculumByID(ctx, req.CurriculumID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}
	exists, err := s.repo.ExistsByName(ctx, req.CurriculumID, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "unit name already in use")
	}
	maxOrder, err := s.repo.GetMaxUnitOrder(ctx, req.CurriculumID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve unit order")
	}
	unit := &models.Unit{
		CurriculumID: req.CurriculumID,
		Name:         req.Name,
		OrderIndex:   maxOrder + 1,
		Active:       true,
	}
	if err := s.repo.Add(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create unit")
	}
	return unit, nil
}

// Update renames or toggles a unit, re-checking name uniqueness on rename.
func (s *UnitService) Update(ctx context.Context, id string, req UpdateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}
	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit")
	}
	if req.Name != unit.Name {
		existing, err := s.repo.GetByName(ctx, unit.CurriculumID, req.Name)
		if err == nil && existing.ID != unit.ID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "unit name already in use")
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit name")
		}
	}
	unit.Name = req.Name
	unit.Active = req.Active
	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit")
	}
	return unit, nil
}

// ListByCurriculum returns a curriculum's units ordered by index.
func (s *UnitService) ListByCurriculum(ctx context.Context, curriculumID string) ([]models.Unit, error) {
	units, err := s.repo.GetByCurriculumID(ctx, curriculumID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list units")
	}
	return units, nil
}
