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

type sessionMutatorStub struct {
	sessions      map[string]*models.Session
	statusUpdates map[string]models.SessionStatus
	rescheduled   bool
}

func (s *sessionMutatorStub) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if session, ok := s.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sessionMutatorStub) GetByContractID(ctx context.Context, contractID string) ([]models.Session, error) {
	out := make([]models.Session, 0)
	for _, session := range s.sessions {
		if session.ContractID == contractID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *sessionMutatorStub) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	if s.statusUpdates == nil {
		s.statusUpdates = make(map[string]models.SessionStatus)
	}
	s.statusUpdates[id] = status
	return nil
}

func (s *sessionMutatorStub) Reschedule(ctx context.Context, id string, date time.Time, startTime, endTime string) error {
	s.rescheduled = true
	session := s.sessions[id]
	session.Date = date
	session.StartTime = startTime
	session.EndTime = endTime
	session.Status = models.SessionStatusRescheduled
	session.RescheduleCount++
	return nil
}

type contractPackageStub struct {
	contracts map[string]*models.ContractWithPackage
}

func (s contractPackageStub) GetByIDWithPackage(ctx context.Context, id string) (*models.ContractWithPackage, error) {
	if c, ok := s.contracts[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func rescheduleFixture(rescheduleCount, maxReschedules int) (*sessionMutatorStub, contractPackageStub) {
	repo := &sessionMutatorStub{sessions: map[string]*models.Session{
		"s1": {
			ID:              "s1",
			ContractID:      "c1",
			Date:            time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC),
			StartTime:       "15:00",
			EndTime:         "16:00",
			Status:          models.SessionStatusScheduled,
			RescheduleCount: rescheduleCount,
		},
	}}
	contracts := contractPackageStub{contracts: map[string]*models.ContractWithPackage{
		"c1": {
			Contract: models.Contract{
				ID:        "c1",
				StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			},
			MaxReschedules: maxReschedules,
		},
	}}
	return repo, contracts
}

func TestUpdateSessionStatus(t *testing.T) {
	repo := &sessionMutatorStub{sessions: map[string]*models.Session{
		"s1": {ID: "s1", ContractID: "c1", Status: models.SessionStatusScheduled},
	}}
	svc := NewSessionService(repo, contractPackageStub{}, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), "s1", models.SessionStatusCompleted))
	assert.Equal(t, models.SessionStatusCompleted, repo.statusUpdates["s1"])

	err := svc.UpdateStatus(context.Background(), "s1", models.SessionStatusScheduled)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)

	err = svc.UpdateStatus(context.Background(), "missing", models.SessionStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestRescheduleWithinAllowance(t *testing.T) {
	repo, contracts := rescheduleFixture(1, 2)
	svc := NewSessionService(repo, contracts, nil, nil)

	updated, err := svc.Reschedule(context.Background(), "s1", RescheduleSessionRequest{
		Date:      "2026-02-10",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.NoError(t, err)
	assert.True(t, repo.rescheduled)
	assert.Equal(t, time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC), updated.Date)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, models.SessionStatusRescheduled, updated.Status)
	assert.Equal(t, 2, updated.RescheduleCount)
}

func TestRescheduleAllowanceExhausted(t *testing.T) {
	repo, contracts := rescheduleFixture(2, 2)
	svc := NewSessionService(repo, contracts, nil, nil)

	_, err := svc.Reschedule(context.Background(), "s1", RescheduleSessionRequest{
		Date:      "2026-02-10",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", appErrors.FromError(err).Code)
	assert.False(t, repo.rescheduled)
}

func TestRescheduleOutsideContractRange(t *testing.T) {
	repo, contracts := rescheduleFixture(0, 2)
	svc := NewSessionService(repo, contracts, nil, nil)

	for _, raw := range []string{"2026-01-04", "2026-04-01"} {
		_, err := svc.Reschedule(context.Background(), "s1", RescheduleSessionRequest{
			Date:      raw,
			StartTime: "10:00",
			EndTime:   "11:00",
		})
		require.Error(t, err, raw)
		assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	}
	assert.False(t, repo.rescheduled)

	// Contract boundary days are legal targets.
	_, err := svc.Reschedule(context.Background(), "s1", RescheduleSessionRequest{
		Date:      "2026-03-31",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.NoError(t, err)
}

func TestRescheduleRejectsInvertedClockWindow(t *testing.T) {
	repo, contracts := rescheduleFixture(0, 2)
	svc := NewSessionService(repo, contracts, nil, nil)

	_, err := svc.Reschedule(context.Background(), "s1", RescheduleSessionRequest{
		Date:      "2026-02-10",
		StartTime: "11:00",
		EndTime:   "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.False(t, repo.rescheduled)
}
