package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
)

type contractRepoStub struct {
	byID          map[string]*models.Contract
	withPackage   map[string]*models.ContractWithPackage
	details       []models.ContractDetail
	added         []*models.Contract
	statusUpdates []models.ContractStatus
	assignedTutor string
	listCalls     int
}

func (s *contractRepoStub) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	if c, ok := s.byID[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *contractRepoStub) GetByIDWithPackage(ctx context.Context, id string) (*models.ContractWithPackage, error) {
	if c, ok := s.withPackage[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *contractRepoStub) GetByParentID(ctx context.Context, parentID string) ([]models.ContractDetail, error) {
	s.listCalls++
	return s.details, nil
}

func (s *contractRepoStub) GetAllWithDetails(ctx context.Context) ([]models.ContractDetail, error) {
	s.listCalls++
	return s.details, nil
}

func (s *contractRepoStub) Add(ctx context.Context, contract *models.Contract) error {
	if contract.ID == "" {
		contract.ID = "contract-1"
	}
	s.added = append(s.added, contract)
	return nil
}

func (s *contractRepoStub) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *contractRepoStub) AssignMainTutor(ctx context.Context, id, tutorID string) error {
	s.assignedTutor = tutorID
	return nil
}

type sessionBatchStub struct {
	existing []models.Session
	batches  [][]models.Session
	deletes  int
}

func (s *sessionBatchStub) GetByContractID(ctx context.Context, contractID string) ([]models.Session, error) {
	return s.existing, nil
}

func (s *sessionBatchStub) AddRange(ctx context.Context, sessions []models.Session) error {
	s.batches = append(s.batches, sessions)
	return nil
}

func (s *sessionBatchStub) DeleteByContractID(ctx context.Context, contractID string) error {
	s.deletes++
	s.existing = nil
	return nil
}

type packageRepoStub struct {
	packages map[string]*models.PaymentPackage
}

func (s packageRepoStub) GetByID(ctx context.Context, id string) (*models.PaymentPackage, error) {
	if p, ok := s.packages[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type cacheStub struct {
	summaries map[string][]dto.ContractSummary
	sets      []string
	patterns  []string
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.summaries == nil {
		return appErrors.ErrCacheMiss
	}
	cached, ok := s.summaries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	out, ok := dest.(*[]dto.ContractSummary)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*out = cached
	return nil
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets = append(s.sets, key)
	return nil
}

func (s *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	return nil
}

func validCreateRequest() CreateContractRequest {
	return CreateContractRequest{
		ParentID:  "p1",
		ChildID:   "ch1",
		PackageID: "pkg1",
		StartDate: "2026-01-05",
		EndDate:   "2026-03-31",
		DayMask:   int(models.MaskOf(time.Monday, time.Wednesday, time.Friday)),
		StartTime: "15:00",
		EndTime:   "16:30",
		IsOnline:  true,
		Status:    "pending",
	}
}

func TestCreateContractGeneratesSessionBatch(t *testing.T) {
	repo := &contractRepoStub{}
	sessions := &sessionBatchStub{}
	packages := packageRepoStub{packages: map[string]*models.PaymentPackage{
		"pkg1": {ID: "pkg1", SessionCount: 8},
	}}
	cache := &cacheStub{}
	svc := NewContractService(repo, sessions, packages, cache, nil, nil, time.Minute)

	id, err := svc.CreateContract(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "contract-1", id)

	require.Len(t, repo.added, 1)
	assert.Equal(t, models.ContractStatusPending, repo.added[0].Status)

	require.Len(t, sessions.batches, 1)
	assert.Len(t, sessions.batches[0], 8)
	for _, session := range sessions.batches[0] {
		assert.Equal(t, "contract-1", session.ContractID)
		assert.Equal(t, models.SessionStatusScheduled, session.Status)
	}
	assert.Contains(t, cache.patterns, "contracts:*")
}

func TestCreateContractRejectsUnknownStatusBeforeWrites(t *testing.T) {
	repo := &contractRepoStub{}
	sessions := &sessionBatchStub{}
	svc := NewContractService(repo, sessions, packageRepoStub{}, nil, nil, nil, time.Minute)

	req := validCreateRequest()
	req.Status = "Pending"

	_, err := svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "INVALID_STATUS", appErr.Code)
	assert.Equal(t, "Invalid status.", appErr.Message)
	assert.Empty(t, repo.added)
	assert.Empty(t, sessions.batches)
}

func TestCreateContractValidatesDateAndClockWindows(t *testing.T) {
	svc := NewContractService(&contractRepoStub{}, &sessionBatchStub{}, packageRepoStub{}, nil, nil, nil, time.Minute)

	req := validCreateRequest()
	req.EndDate = "2025-12-31"
	_, err := svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)

	req = validCreateRequest()
	req.EndTime = "15:00"
	_, err = svc.CreateContract(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestCreateContractUnknownPackage(t *testing.T) {
	repo := &contractRepoStub{}
	svc := NewContractService(repo, &sessionBatchStub{}, packageRepoStub{}, nil, nil, nil, time.Minute)

	_, err := svc.CreateContract(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestUpdateContractStatusTransitions(t *testing.T) {
	cases := []struct {
		name     string
		from     models.ContractStatus
		to       string
		wantCode string
	}{
		{"pending to active", models.ContractStatusPending, "active", ""},
		{"pending to cancelled", models.ContractStatusPending, "cancelled", ""},
		{"active to completed", models.ContractStatusActive, "completed", ""},
		{"pending to completed", models.ContractStatusPending, "completed", "INVALID_TRANSITION"},
		{"completed is terminal", models.ContractStatusCompleted, "active", "INVALID_TRANSITION"},
		{"cancelled is terminal", models.ContractStatusCancelled, "active", "INVALID_TRANSITION"},
		{"unknown literal", models.ContractStatusPending, "archived", "INVALID_STATUS"},
		{"case sensitive", models.ContractStatusPending, "Active", "INVALID_STATUS"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &contractRepoStub{byID: map[string]*models.Contract{
				"c1": {ID: "c1", Status: tc.from},
			}}
			svc := NewContractService(repo, &sessionBatchStub{}, packageRepoStub{}, nil, nil, nil, time.Minute)

			updated, err := svc.UpdateContractStatus(context.Background(), "c1", tc.to, "staff-1")
			if tc.wantCode == "" {
				require.NoError(t, err)
				assert.True(t, updated)
				require.Len(t, repo.statusUpdates, 1)
				assert.Equal(t, models.ContractStatus(tc.to), repo.statusUpdates[0])
			} else {
				require.Error(t, err)
				assert.False(t, updated)
				assert.Equal(t, tc.wantCode, appErrors.FromError(err).Code)
				assert.Empty(t, repo.statusUpdates)
			}
		})
	}
}

func TestUpdateContractStatusNotFound(t *testing.T) {
	svc := NewContractService(&contractRepoStub{}, &sessionBatchStub{}, packageRepoStub{}, nil, nil, nil, time.Minute)

	_, err := svc.UpdateContractStatus(context.Background(), "missing", "active", "staff-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestAssignTutorsReplacesSessionBatch(t *testing.T) {
	contract := &models.ContractWithPackage{
		Contract: models.Contract{
			ID:        "c1",
			StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			DayMask:   models.MaskOf(time.Tuesday, time.Thursday),
			StartTime: "10:00",
			EndTime:   "11:00",
			Status:    models.ContractStatusActive,
		},
		SessionCount: 6,
	}
	repo := &contractRepoStub{withPackage: map[string]*models.ContractWithPackage{"c1": contract}}
	sessions := &sessionBatchStub{existing: []models.Session{{ID: "old-1"}, {ID: "old-2"}}}
	svc := NewContractService(repo, sessions, packageRepoStub{}, nil, nil, nil, time.Minute)

	updated, err := svc.AssignTutors(context.Background(), "c1", "tutor-9", "staff-1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, "tutor-9", repo.assignedTutor)

	// The old batch is cleared before the regenerated one is written, so
	// re-assignment never duplicates sessions.
	assert.Equal(t, 1, sessions.deletes)
	require.Len(t, sessions.batches, 1)
	assert.Len(t, sessions.batches[0], 6)
	for _, session := range sessions.batches[0] {
		assert.NotContains(t, []string{"old-1", "old-2"}, session.ID)
	}
}

func TestGetContractsByParentUsesCache(t *testing.T) {
	detail := models.ContractDetail{
		Contract: models.Contract{
			ID:        "c1",
			StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
			DayMask:   models.MaskOf(time.Monday, time.Friday),
			StartTime: "15:00",
			EndTime:   "16:00",
			Status:    models.ContractStatusActive,
		},
		ChildName:   "Alya",
		PackageName: "Semester",
	}
	repo := &contractRepoStub{details: []models.ContractDetail{detail}}
	cache := &cacheStub{}
	svc := NewContractService(repo, &sessionBatchStub{}, packageRepoStub{}, cache, nil, nil, time.Minute)

	summaries, err := svc.GetContractsByParent(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Mon, Fri", summaries[0].ScheduleDays)
	assert.Equal(t, 1, repo.listCalls)
	assert.Contains(t, cache.sets, "contracts:parent:p1")

	// Second call is served from the cache.
	cache.summaries = map[string][]dto.ContractSummary{"contracts:parent:p1": summaries}
	again, err := svc.GetContractsByParent(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, summaries, again)
	assert.Equal(t, 1, repo.listCalls)
}
