package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type contractCounter interface {
	CountByStatus(ctx context.Context) (map[models.ContractStatus]int, error)
}

type sessionCounter interface {
	CountBetween(ctx context.Context, from, to time.Time) (int, error)
}

type reportCounter interface {
	CountAll(ctx context.Context) (int, error)
}

type tutorCounter interface {
	CountActiveTutors(ctx context.Context) (int, error)
}

type testResultReader interface {
	AveragesByChild(ctx context.Context, childID string) (map[string]float64, map[string]int, error)
}

// StatsService assembles read-only platform statistics.
type StatsService struct {
	contracts   contractCounter
	sessions    sessionCounter
	reports     reportCounter
	users       tutorCounter
	testResults testResultReader
	logger      *zap.Logger
}

// NewStatsService constructs StatsService.
func NewStatsService(contracts contractCounter, sessions sessionCounter, reports reportCounter, users tutorCounter, testResults testResultReader, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{contracts: contracts, sessions: sessions, reports: reports, users: users, testResults: testResults, logger: logger}
}

// PlatformSnapshot returns the staff dashboard counters.
func (s *StatsService) PlatformSnapshot(ctx context.Context) (*dto.PlatformStats, error) {
	byStatus, err := s.contracts.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count contracts")
	}
	now := time.Now().UTC()
	weekStart := truncateToDay(now).AddDate(0, 0, -int((now.Weekday()+6)%7))
	weekEnd := weekStart.AddDate(0, 0, 6)
	sessionsThisWeek, err := s.sessions.CountBetween(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count sessions")
	}
	reportsTotal, err := s.reports.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	activeTutors, err := s.users.CountActiveTutors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count tutors")
	}

	stats := &dto.PlatformStats{
		ContractsByStatus: make(map[string]int, len(byStatus)),
		SessionsThisWeek:  sessionsThisWeek,
		ReportsTotal:      reportsTotal,
		ActiveTutors:      activeTutors,
	}
	for status, total := range byStatus {
		stats.ContractsByStatus[string(status)] = total
	}
	return stats, nil
}

// ChildTestAverages aggregates a child's test scores per subject.
func (s *StatsService) ChildTestAverages(ctx context.Context, childID string) ([]dto.ChildTestAverage, error) {
	averages, counts, err := s.testResults.AveragesByChild(ctx, childID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate test results")
	}
	out := make([]dto.ChildTestAverage, 0, len(averages))
	for subject, avg := range averages {
		out = append(out, dto.ChildTestAverage{Subject: subject, TestCount: counts[subject], AverageScore: avg})
	}
	return out, nil
}
