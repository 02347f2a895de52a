package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

type contractStore interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	GetByIDWithPackage(ctx context.Context, id string) (*models.ContractWithPackage, error)
	GetByParentID(ctx context.Context, parentID string) ([]models.ContractDetail, error)
	GetAllWithDetails(ctx context.Context) ([]models.ContractDetail, error)
	Add(ctx context.Context, contract *models.Contract) error
	UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error
	AssignMainTutor(ctx context.Context, id, tutorID string) error
}

type sessionStore interface {
	GetByContractID(ctx context.Context, contractID string) ([]models.Session, error)
	AddRange(ctx context.Context, sessions []models.Session) error
	DeleteByContractID(ctx context.Context, contractID string) error
}

type packageReader interface {
	GetByID(ctx context.Context, id string) (*models.PaymentPackage, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateContractRequest describes a parent's booking request.
type CreateContractRequest struct {
	ParentID  string `json:"parent_id" validate:"required"`
	ChildID   string `json:"child_id" validate:"required"`
	PackageID string `json:"package_id" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	DayMask   int    `json:"day_mask" validate:"required,min=1,max=127"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsOnline  bool   `json:"is_online"`
	Status    string `json:"status" validate:"required"`
}

// ContractService owns the contract lifecycle: creation with session
// generation, status transitions, tutor assignment and list projections.
type ContractService struct {
	repo      contractStore
	sessions  sessionStore
	packages  packageReader
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	listTTL   time.Duration
}

// NewContractService constructs ContractService. cache may be nil.
func NewContractService(repo contractStore, sessions sessionStore, packages packageReader, cache cacheStore, validate *validator.Validate, logger *zap.Logger, listTTL time.Duration) *ContractService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if listTTL <= 0 {
		listTTL = 2 * time.Minute
	}
	return &ContractService{repo: repo, sessions: sessions, packages: packages, cache: cache, validator: validate, logger: logger, listTTL: listTTL}
}

// CreateContract validates the booking request, persists the contract and
// materialises its session calendar in one batch. All validation happens
// before the first repository write.
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contract payload")
	}
	status, ok := models.ParseContractStatus(req.Status)
	if !ok {
		return "", appErrors.ErrInvalidStatus
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return "", err
	}
	if err := validateClockWindow(req.StartTime, req.EndTime); err != nil {
		return "", err
	}

	pkg, err := s.packages.GetByID(ctx, req.PackageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}

	contract := &models.Contract{
		ParentID:  req.ParentID,
		ChildID:   req.ChildID,
		PackageID: req.PackageID,
		StartDate: startDate,
		EndDate:   endDate,
		DayMask:   models.WeekdayMask(req.DayMask),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsOnline:  req.IsOnline,
		Status:    status,
	}
	if err := s.repo.Add(ctx, contract); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contract")
	}

	generated := GenerateSessions(contract.ID, contract.StartDate, contract.EndDate, contract.DayMask,
		contract.StartTime, contract.EndTime, contract.IsOnline, pkg.SessionCount)
	if len(generated) < pkg.SessionCount {
		s.logger.Sugar().Warnw("date range shorter than purchased session count",
			"contract_id", contract.ID, "generated", len(generated), "purchased", pkg.SessionCount)
	}
	if err := s.sessions.AddRange(ctx, generated); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist sessions")
	}

	s.invalidateListCache(ctx)
	return contract.ID, nil
}

// UpdateContractStatus applies a lifecycle transition after checking it
// against the legal-transition set.
func (s *ContractService) UpdateContractStatus(ctx context.Context, contractID, newStatus, actorID string) (bool, error) {
	contract, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	status, ok := models.ParseContractStatus(newStatus)
	if !ok {
		return false, appErrors.ErrInvalidStatus
	}
	if !contract.Status.CanTransitionTo(status) {
		return false, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move contract from %s to %s", contract.Status, status))
	}
	if err := s.repo.UpdateStatus(ctx, contractID, status); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update contract status")
	}
	s.logger.Sugar().Infow("contract status updated", "contract_id", contractID, "from", contract.Status, "to", status, "actor_id", actorID)
	s.invalidateListCache(ctx)
	return true, nil
}

// AssignTutors sets the main tutor and regenerates the session calendar.
// Existing sessions are deleted first so re-assignment replaces the batch
// instead of appending duplicates.
func (s *ContractService) AssignTutors(ctx context.Context, contractID, mainTutorID, actorID string) (bool, error) {
	contract, err := s.repo.GetByIDWithPackage(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	if err := s.repo.AssignMainTutor(ctx, contractID, mainTutorID); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign tutor")
	}
	if err := s.sessions.DeleteByContractID(ctx, contractID); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear sessions")
	}
	generated := GenerateSessions(contract.ID, contract.StartDate, contract.EndDate, contract.DayMask,
		contract.StartTime, contract.EndTime, contract.IsOnline, contract.SessionCount)
	if err := s.sessions.AddRange(ctx, generated); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist sessions")
	}
	s.logger.Sugar().Infow("main tutor assigned", "contract_id", contractID, "tutor_id", mainTutorID, "actor_id", actorID, "sessions", len(generated))
	s.invalidateListCache(ctx)
	return true, nil
}

// GetContractsByParent returns a parent's contracts as display summaries.
func (s *ContractService) GetContractsByParent(ctx context.Context, parentID string) ([]dto.ContractSummary, error) {
	key := "contracts:parent:" + parentID
	if s.cache != nil {
		var cached []dto.ContractSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}
	details, err := s.repo.GetByParentID(ctx, parentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contracts")
	}
	summaries := toSummaries(details)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summaries, s.listTTL); err != nil {
			s.logger.Sugar().Warnw("contract list cache set failed", "error", err)
		}
	}
	return summaries, nil
}

// GetAllContracts returns every contract as a display summary.
func (s *ContractService) GetAllContracts(ctx context.Context) ([]dto.ContractSummary, error) {
	const key = "contracts:all"
	if s.cache != nil {
		var cached []dto.ContractSummary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}
	details, err := s.repo.GetAllWithDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contracts")
	}
	summaries := toSummaries(details)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summaries, s.listTTL); err != nil {
			s.logger.Sugar().Warnw("contract list cache set failed", "error", err)
		}
	}
	return summaries, nil
}

func (s *ContractService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "contracts:*"); err != nil {
		s.logger.Sugar().Warnw("contract list cache invalidation failed", "error", err)
	}
}

func toSummaries(details []models.ContractDetail) []dto.ContractSummary {
	summaries := make([]dto.ContractSummary, 0, len(details))
	for _, d := range details {
		summaries = append(summaries, dto.ContractSummary{
			ID:            d.ID,
			ChildName:     d.ChildName,
			PackageName:   d.PackageName,
			MainTutorName: d.MainTutorName,
			CenterName:    d.CenterName,
			StartDate:     d.StartDate.Format(dateLayout),
			EndDate:       d.EndDate.Format(dateLayout),
			ScheduleDays:  d.DayMask.Format(),
			StartTime:     d.StartTime,
			EndTime:       d.EndTime,
			IsOnline:      d.IsOnline,
			Status:        string(d.Status),
		})
	}
	return summaries
}

func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	startDate, err := time.ParseInLocation(dateLayout, startRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start_date must be YYYY-MM-DD")
	}
	endDate, err := time.ParseInLocation(dateLayout, endRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must be YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	return startDate, endDate, nil
}

func validateClockWindow(startRaw, endRaw string) error {
	start, err := time.Parse(clockLayout, startRaw)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	end, err := time.Parse(clockLayout, endRaw)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if !end.After(start) {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return nil
}
