package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type oldestReportReader interface {
	GetOldestByChildID(ctx context.Context, childID string) (*models.DailyReport, error)
}

type curriculumUnitReader interface {
	GetByID(ctx context.Context, id string) (*models.Unit, error)
	GetActiveByCurriculumID(ctx context.Context, curriculumID string) ([]models.Unit, error)
}

type curriculumPackageReader interface {
	GetPackageByCurriculumID(ctx context.Context, curriculumID string) (*models.PaymentPackage, error)
}

// ForecastService projects when a child completes the curriculum window
// implied by their package. One unit is assumed to span unitSpanDays
// calendar days; the ratio is configuration, not a hidden constant.
type ForecastService struct {
	reports      oldestReportReader
	units        curriculumUnitReader
	packages     curriculumPackageReader
	cache        cacheStore
	logger       *zap.Logger
	unitSpanDays int
	cacheTTL     time.Duration
}

// NewForecastService constructs ForecastService. cache may be nil.
func NewForecastService(reports oldestReportReader, units curriculumUnitReader, packages curriculumPackageReader, cache cacheStore, logger *zap.Logger, unitSpanDays int, cacheTTL time.Duration) *ForecastService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if unitSpanDays <= 0 {
		unitSpanDays = 14
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ForecastService{reports: reports, units: units, packages: packages, cache: cache, logger: logger, unitSpanDays: unitSpanDays, cacheTTL: cacheTTL}
}

// GetLearningCompletionForecast anchors on the child's oldest report,
// walks the curriculum's active units from that unit's order index and
// bounds the projection by the package duration window.
func (s *ForecastService) GetLearningCompletionForecast(ctx context.Context, childID string) (*dto.CompletionForecastResponse, error) {
	key := "forecast:child:" + childID
	if s.cache != nil {
		var cached dto.CompletionForecastResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	oldest, err := s.reports.GetOldestByChildID(ctx, childID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no learning history for child")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report history")
	}
	startUnit, err := s.units.GetByID(ctx, oldest.UnitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "starting unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit")
	}
	activeUnits, err := s.units.GetActiveByCurriculumID(ctx, startUnit.CurriculumID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum units")
	}
	if len(activeUnits) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum has no active units")
	}

	windowDays := s.unitSpanDays
	pkg, err := s.packages.GetPackageByCurriculumID(ctx, startUnit.CurriculumID)
	switch {
	case err == nil && pkg.DurationDays != nil && *pkg.DurationDays > 0:
		windowDays = *pkg.DurationDays
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum package")
	}

	unitsInWindow := windowDays / s.unitSpanDays
	if unitsInWindow < 1 {
		unitsInWindow = 1
	}

	// Remaining active units from the starting order, bounded by the window.
	remaining := make([]models.Unit, 0, len(activeUnits))
	for _, unit := range activeUnits {
		if unit.OrderIndex >= startUnit.OrderIndex {
			remaining = append(remaining, unit)
		}
	}
	if len(remaining) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active units at or beyond starting unit")
	}
	if len(remaining) > unitsInWindow {
		remaining = remaining[:unitsInWindow]
	}
	finalUnit := remaining[len(remaining)-1]

	totalDays := len(remaining) * s.unitSpanDays
	weeks := float64(totalDays) / 7
	projectedEnd := time.Now().UTC().AddDate(0, 0, totalDays)

	resp := &dto.CompletionForecastResponse{
		ChildID:              childID,
		CurriculumID:         startUnit.CurriculumID,
		StartingUnitOrder:    startUnit.OrderIndex,
		TotalUnitsToComplete: len(remaining),
		WeeksToCompletion:    weeks,
		ProjectedEndDate:     projectedEnd.Format(dateLayout),
		Message: fmt.Sprintf("%d units to go, finishing with %q in about %.1f weeks",
			len(remaining), finalUnit.Name, weeks),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("forecast cache set failed", "error", err)
		}
	}
	return resp, nil
}
