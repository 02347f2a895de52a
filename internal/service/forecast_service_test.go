package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type oldestReportStub struct {
	report *models.DailyReport
}

func (s oldestReportStub) GetOldestByChildID(ctx context.Context, childID string) (*models.DailyReport, error) {
	if s.report == nil {
		return nil, sql.ErrNoRows
	}
	return s.report, nil
}

type curriculumUnitStub struct {
	units  map[string]*models.Unit
	active []models.Unit
}

func (s curriculumUnitStub) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	if u, ok := s.units[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s curriculumUnitStub) GetActiveByCurriculumID(ctx context.Context, curriculumID string) ([]models.Unit, error) {
	return s.active, nil
}

type curriculumPackageStub struct {
	pkg *models.PaymentPackage
}

func (s curriculumPackageStub) GetPackageByCurriculumID(ctx context.Context, curriculumID string) (*models.PaymentPackage, error) {
	if s.pkg == nil {
		return nil, sql.ErrNoRows
	}
	return s.pkg, nil
}

func mathUnits() curriculumUnitStub {
	active := []models.Unit{
		{ID: "u1", CurriculumID: "cur1", Name: "Fractions", OrderIndex: 1, Active: true},
		{ID: "u2", CurriculumID: "cur1", Name: "Decimals", OrderIndex: 2, Active: true},
		{ID: "u3", CurriculumID: "cur1", Name: "Percentages", OrderIndex: 3, Active: true},
		{ID: "u4", CurriculumID: "cur1", Name: "Ratios", OrderIndex: 4, Active: true},
	}
	units := make(map[string]*models.Unit, len(active))
	for i := range active {
		units[active[i].ID] = &active[i]
	}
	return curriculumUnitStub{units: units, active: active}
}

func intPtr(v int) *int { return &v }

func TestForecastBoundedByPackageWindow(t *testing.T) {
	reports := oldestReportStub{report: &models.DailyReport{ChildID: "ch1", UnitID: "u1"}}
	packages := curriculumPackageStub{pkg: &models.PaymentPackage{ID: "pkg1", DurationDays: intPtr(28)}}
	svc := NewForecastService(reports, mathUnits(), packages, nil, nil, 14, 0)

	forecast, err := svc.GetLearningCompletionForecast(context.Background(), "ch1")
	require.NoError(t, err)

	assert.Equal(t, "ch1", forecast.ChildID)
	assert.Equal(t, "cur1", forecast.CurriculumID)
	assert.Equal(t, 1, forecast.StartingUnitOrder)
	// 28-day window over 14-day units keeps two of the four remaining units.
	assert.Equal(t, 2, forecast.TotalUnitsToComplete)
	assert.InDelta(t, 4.0, forecast.WeeksToCompletion, 1e-9)
	assert.Equal(t, `2 units to go, finishing with "Decimals" in about 4.0 weeks`, forecast.Message)
	assert.NotEmpty(t, forecast.ProjectedEndDate)
}

func TestForecastWithoutPackageUsesSingleUnitWindow(t *testing.T) {
	reports := oldestReportStub{report: &models.DailyReport{ChildID: "ch1", UnitID: "u3"}}
	svc := NewForecastService(reports, mathUnits(), curriculumPackageStub{}, nil, nil, 14, 0)

	forecast, err := svc.GetLearningCompletionForecast(context.Background(), "ch1")
	require.NoError(t, err)

	assert.Equal(t, 3, forecast.StartingUnitOrder)
	assert.Equal(t, 1, forecast.TotalUnitsToComplete)
	assert.InDelta(t, 2.0, forecast.WeeksToCompletion, 1e-9)
	assert.Equal(t, `1 units to go, finishing with "Percentages" in about 2.0 weeks`, forecast.Message)
}

func TestForecastSkipsUnitsBeforeStartingOrder(t *testing.T) {
	reports := oldestReportStub{report: &models.DailyReport{ChildID: "ch1", UnitID: "u2"}}
	packages := curriculumPackageStub{pkg: &models.PaymentPackage{ID: "pkg1", DurationDays: intPtr(56)}}
	svc := NewForecastService(reports, mathUnits(), packages, nil, nil, 14, 0)

	forecast, err := svc.GetLearningCompletionForecast(context.Background(), "ch1")
	require.NoError(t, err)

	// Units 2 through 4 remain; the 56-day window admits all three.
	assert.Equal(t, 3, forecast.TotalUnitsToComplete)
	assert.InDelta(t, 6.0, forecast.WeeksToCompletion, 1e-9)
	assert.Contains(t, forecast.Message, `"Ratios"`)
}

func TestForecastNoLearningHistory(t *testing.T) {
	svc := NewForecastService(oldestReportStub{}, mathUnits(), curriculumPackageStub{}, nil, nil, 14, 0)

	_, err := svc.GetLearningCompletionForecast(context.Background(), "ch1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Equal(t, "no learning history for child", appErr.Message)
}

func TestForecastNoActiveUnits(t *testing.T) {
	reports := oldestReportStub{report: &models.DailyReport{ChildID: "ch1", UnitID: "u1"}}
	units := curriculumUnitStub{units: map[string]*models.Unit{
		"u1": {ID: "u1", CurriculumID: "cur1", Name: "Fractions", OrderIndex: 1},
	}}
	svc := NewForecastService(reports, units, curriculumPackageStub{}, nil, nil, 14, 0)

	_, err := svc.GetLearningCompletionForecast(context.Background(), "ch1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}
