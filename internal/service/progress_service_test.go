package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type contractReaderStub struct {
	contracts map[string]*models.Contract
}

func (s contractReaderStub) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	if c, ok := s.contracts[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type sessionReaderStub struct {
	sessions []models.Session
}

func (s sessionReaderStub) GetByContractID(ctx context.Context, contractID string) ([]models.Session, error) {
	return s.sessions, nil
}

type reportHistoryStub struct {
	reports []models.DailyReport
}

func (s reportHistoryStub) GetByChildID(ctx context.Context, childID string) ([]models.DailyReport, error) {
	return s.reports, nil
}

type childReaderStub struct {
	children map[string]*models.Child
}

func (s childReaderStub) FindChildByID(ctx context.Context, id string) (*models.Child, error) {
	if c, ok := s.children[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type unitReaderStub struct {
	units map[string]*models.Unit
}

func (s unitReaderStub) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	if u, ok := s.units[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func progressFixture(reports []models.DailyReport) *ProgressService {
	contracts := contractReaderStub{contracts: map[string]*models.Contract{
		"c1": {ID: "c1", ChildID: "ch1"},
	}}
	sessions := sessionReaderStub{sessions: []models.Session{{ID: "s1", ContractID: "c1"}}}
	children := childReaderStub{children: map[string]*models.Child{
		"ch1": {ID: "ch1", FullName: "Alya"},
	}}
	units := unitReaderStub{units: map[string]*models.Unit{
		"u1": {ID: "u1", Name: "Fractions", OrderIndex: 1},
		"u2": {ID: "u2", Name: "Decimals", OrderIndex: 2},
	}}
	return NewProgressService(contracts, sessions, reportHistoryStub{reports: reports}, children, units, nil)
}

func report(unitID string, onTrack, hasHomework bool) models.DailyReport {
	return models.DailyReport{
		ChildID:     "ch1",
		UnitID:      unitID,
		OnTrack:     onTrack,
		HasHomework: hasHomework,
		CreatedAt:   time.Now(),
	}
}

func TestGetChildUnitProgressAggregatesByUnit(t *testing.T) {
	svc := progressFixture([]models.DailyReport{
		report("u1", true, false),
		report("u2", true, true),
		report("u1", false, false),
	})

	progress, err := svc.GetChildUnitProgress(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", progress.ContractID)
	assert.Equal(t, "ch1", progress.ChildID)
	assert.Equal(t, 2, progress.TotalUnitsLearned)
	assert.Equal(t, 3, progress.UniqueLessonsCompleted)

	require.Len(t, progress.UnitsProgress, 2)
	first := progress.UnitsProgress[0]
	assert.Equal(t, "u1", first.UnitID)
	assert.Equal(t, "Fractions", first.UnitName)
	assert.Equal(t, 1, first.OrderIndex)
	assert.Equal(t, 2, first.TimesLearned)
	assert.InDelta(t, 0.5, first.OnTrackRatio, 1e-9)
	assert.False(t, first.HasHomework)

	second := progress.UnitsProgress[1]
	assert.Equal(t, "u2", second.UnitID)
	assert.Equal(t, 1, second.TimesLearned)
	assert.InDelta(t, 1.0, second.OnTrackRatio, 1e-9)
	assert.True(t, second.HasHomework)
}

func TestGetChildUnitProgressTieKeepsFirstSeenOrder(t *testing.T) {
	svc := progressFixture([]models.DailyReport{
		report("u2", true, false),
		report("u1", true, false),
	})

	progress, err := svc.GetChildUnitProgress(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, progress.UnitsProgress, 2)
	assert.Equal(t, "u2", progress.UnitsProgress[0].UnitID)
	assert.Equal(t, "u1", progress.UnitsProgress[1].UnitID)
}

func TestGetChildUnitProgressEmptyHistory(t *testing.T) {
	svc := progressFixture(nil)

	progress, err := svc.GetChildUnitProgress(context.Background(), "c1")
	require.NoError(t, err)
	assert.Zero(t, progress.TotalUnitsLearned)
	assert.Zero(t, progress.UniqueLessonsCompleted)
	assert.NotNil(t, progress.UnitsProgress)
	assert.Empty(t, progress.UnitsProgress)
}

func TestGetChildUnitProgressUnknownUnitKeepsEntry(t *testing.T) {
	svc := progressFixture([]models.DailyReport{
		report("ghost-unit", true, false),
	})

	progress, err := svc.GetChildUnitProgress(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, progress.UnitsProgress, 1)
	assert.Equal(t, "ghost-unit", progress.UnitsProgress[0].UnitID)
	assert.Empty(t, progress.UnitsProgress[0].UnitName)
}

func TestGetChildUnitProgressNotFoundChain(t *testing.T) {
	t.Run("contract missing", func(t *testing.T) {
		svc := progressFixture(nil)
		_, err := svc.GetChildUnitProgress(context.Background(), "missing")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	})

	t.Run("child missing", func(t *testing.T) {
		contracts := contractReaderStub{contracts: map[string]*models.Contract{
			"c1": {ID: "c1", ChildID: "orphan"},
		}}
		svc := NewProgressService(contracts, sessionReaderStub{}, reportHistoryStub{}, childReaderStub{}, unitReaderStub{}, nil)
		_, err := svc.GetChildUnitProgress(context.Background(), "c1")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	})

	t.Run("no sessions", func(t *testing.T) {
		contracts := contractReaderStub{contracts: map[string]*models.Contract{
			"c1": {ID: "c1", ChildID: "ch1"},
		}}
		children := childReaderStub{children: map[string]*models.Child{"ch1": {ID: "ch1"}}}
		svc := NewProgressService(contracts, sessionReaderStub{}, reportHistoryStub{}, children, unitReaderStub{}, nil)
		_, err := svc.GetChildUnitProgress(context.Background(), "c1")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	})
}
