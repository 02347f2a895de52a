package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type contractReader interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
}

type sessionReader interface {
	GetByContractID(ctx context.Context, contractID string) ([]models.Session, error)
}

type reportHistoryReader interface {
	GetByChildID(ctx context.Context, childID string) ([]models.DailyReport, error)
}

type childReader interface {
	FindChildByID(ctx context.Context, id string) (*models.Child, error)
}

type unitReader interface {
	GetByID(ctx context.Context, id string) (*models.Unit, error)
}

// ProgressService aggregates daily-report history into per-unit progress.
type ProgressService struct {
	contracts contractReader
	sessions  sessionReader
	reports   reportHistoryReader
	children  childReader
	units     unitReader
	logger    *zap.Logger
}

// NewProgressService constructs ProgressService.
func NewProgressService(contracts contractReader, sessions sessionReader, reports reportHistoryReader, children childReader, units unitReader, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{contracts: contracts, sessions: sessions, reports: reports, children: children, units: units, logger: logger}
}

type unitGroup struct {
	unitID       string
	firstSeen    int
	timesLearned int
	onTrackCount int
	hasHomework  bool
}

// GetChildUnitProgress resolves the contract's child and folds the child's
// report history into one entry per distinct unit. Entries are ordered
// most-reports-first; ties keep first-seen report order.
func (s *ProgressService) GetChildUnitProgress(ctx context.Context, contractID string) (*dto.ChildUnitProgressResponse, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	if _, err := s.children.FindChildByID(ctx, contract.ChildID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "child not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load child")
	}
	sessions, err := s.sessions.GetByContractID(ctx, contractID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	if len(sessions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "contract has no sessions")
	}
	reports, err := s.reports.GetByChildID(ctx, contract.ChildID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}

	groups := make(map[string]*unitGroup)
	ordered := make([]*unitGroup, 0)
	for i, report := range reports {
		group, ok := groups[report.UnitID]
		if !ok {
			group = &unitGroup{unitID: report.UnitID, firstSeen: i}
			groups[report.UnitID] = group
			ordered = append(ordered, group)
		}
		group.timesLearned++
		if report.OnTrack {
			group.onTrackCount++
		}
		if report.HasHomework {
			group.hasHomework = true
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].timesLearned != ordered[j].timesLearned {
			return ordered[i].timesLearned > ordered[j].timesLearned
		}
		return ordered[i].firstSeen < ordered[j].firstSeen
	})

	entries := make([]dto.UnitProgressEntry, 0, len(ordered))
	for _, group := range ordered {
		entry := dto.UnitProgressEntry{
			UnitID:       group.unitID,
			TimesLearned: group.timesLearned,
			HasHomework:  group.hasHomework,
			OnTrackRatio: float64(group.onTrackCount) / float64(group.timesLearned),
		}
		if unit, err := s.units.GetByID(ctx, group.unitID); err == nil {
			entry.UnitName = unit.Name
			entry.OrderIndex = unit.OrderIndex
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit")
		}
		entries = append(entries, entry)
	}

	return &dto.ChildUnitProgressResponse{
		ContractID:             contractID,
		ChildID:                contract.ChildID,
		TotalUnitsLearned:      len(ordered),
		UniqueLessonsCompleted: len(reports),
		UnitsProgress:          entries,
	}, nil
}
