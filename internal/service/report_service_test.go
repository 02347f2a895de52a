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

type reportStoreStub struct {
	byBooking map[string]*models.DailyReport
	added     []*models.DailyReport
}

func (s *reportStoreStub) GetByID(ctx context.Context, id string) (*models.DailyReport, error) {
	return nil, sql.ErrNoRows
}

func (s *reportStoreStub) GetByChildID(ctx context.Context, childID string) ([]models.DailyReport, error) {
	return nil, nil
}

func (s *reportStoreStub) GetByTutorID(ctx context.Context, tutorID string) ([]models.DailyReport, error) {
	return nil, nil
}

func (s *reportStoreStub) GetByBookingID(ctx context.Context, bookingID string) (*models.DailyReport, error) {
	if r, ok := s.byBooking[bookingID]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (s *reportStoreStub) Add(ctx context.Context, report *models.DailyReport) error {
	if report.ID == "" {
		report.ID = "report-1"
	}
	s.added = append(s.added, report)
	return nil
}

type bookingReaderStub struct {
	sessions map[string]*models.Session
}

func (s bookingReaderStub) GetByID(ctx context.Context, id string) (*models.Session, error) {
	if session, ok := s.sessions[id]; ok {
		return session, nil
	}
	return nil, sql.ErrNoRows
}

type notifierStub struct {
	userIDs []string
	events  []Event
	err     error
}

func (s *notifierStub) Send(userID string, event Event) error {
	s.userIDs = append(s.userIDs, userID)
	s.events = append(s.events, event)
	return s.err
}

func validReportRequest() CreateDailyReportRequest {
	return CreateDailyReportRequest{
		ChildID:     "ch1",
		BookingID:   "b1",
		UnitID:      "u1",
		OnTrack:     true,
		HasHomework: true,
		Notes:       "covered long division",
	}
}

func TestCreateReportNotifiesParentStream(t *testing.T) {
	repo := &reportStoreStub{}
	bookings := bookingReaderStub{sessions: map[string]*models.Session{"b1": {ID: "b1"}}}
	hub := &notifierStub{}
	svc := NewReportService(repo, bookings, hub, nil, nil)

	report, err := svc.Create(context.Background(), "tutor-1", validReportRequest())
	require.NoError(t, err)

	assert.Equal(t, "tutor-1", report.TutorID)
	assert.Equal(t, "report-1", report.ID)
	require.Len(t, repo.added, 1)

	require.Len(t, hub.events, 1)
	assert.Equal(t, []string{"ch1"}, hub.userIDs)
	assert.Equal(t, Event{Type: "daily_report", Payload: "report-1"}, hub.events[0])
}

func TestCreateReportDuplicateBooking(t *testing.T) {
	repo := &reportStoreStub{byBooking: map[string]*models.DailyReport{
		"b1": {ID: "existing", BookingID: "b1"},
	}}
	bookings := bookingReaderStub{sessions: map[string]*models.Session{"b1": {ID: "b1"}}}
	svc := NewReportService(repo, bookings, nil, nil, nil)

	_, err := svc.Create(context.Background(), "tutor-1", validReportRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "report already exists for session", appErr.Message)
	assert.Empty(t, repo.added)
}

func TestCreateReportUnknownBooking(t *testing.T) {
	repo := &reportStoreStub{}
	svc := NewReportService(repo, bookingReaderStub{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), "tutor-1", validReportRequest())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}

func TestCreateReportSurvivesNotificationFailure(t *testing.T) {
	repo := &reportStoreStub{}
	bookings := bookingReaderStub{sessions: map[string]*models.Session{"b1": {ID: "b1"}}}
	hub := &notifierStub{err: appErrors.Clone(appErrors.ErrNotFound, "user not connected")}
	svc := NewReportService(repo, bookings, hub, nil, nil)

	report, err := svc.Create(context.Background(), "tutor-1", validReportRequest())
	require.NoError(t, err)
	assert.NotNil(t, report)
	require.Len(t, repo.added, 1)
}

func TestCreateReportRejectsIncompletePayload(t *testing.T) {
	repo := &reportStoreStub{}
	svc := NewReportService(repo, bookingReaderStub{}, nil, nil, nil)

	req := validReportRequest()
	req.UnitID = ""
	_, err := svc.Create(context.Background(), "tutor-1", req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.Empty(t, repo.added)
}
