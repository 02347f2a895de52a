package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edulink-id/tutor-api/internal/dto"
	"github.com/edulink-id/tutor-api/internal/models"
	"github.com/edulink-id/tutor-api/internal/repository"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
	"github.com/edulink-id/tutor-api/pkg/export"
	"github.com/edulink-id/tutor-api/pkg/jobs"
	"github.com/edulink-id/tutor-api/pkg/storage"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
}

type calendarExportReader interface {
	GetByContractID(ctx context.Context, contractID string) ([]models.Session, error)
}

type progressExportReader interface {
	GetChildUnitProgress(ctx context.Context, contractID string) (*dto.ChildUnitProgressResponse, error)
}

type exportQueue interface {
	Enqueue(job jobs.Job) error
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders asynchronous calendar and progress exports.
// Submit persists a job row and hands it to the queue; Process runs on a
// worker, builds the dataset, renders it and stores the file behind a
// signed download URL.
type ExportService struct {
	repo      exportJobStore
	sessions  calendarExportReader
	progress  progressExportReader
	queue     exportQueue
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs ExportService.
func NewExportService(repo exportJobStore, sessions calendarExportReader, progress progressExportReader, queue exportQueue, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		repo:      repo,
		sessions:  sessions,
		progress:  progress,
		queue:     queue,
		storage:   store,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Submit persists a queued job and enqueues it for rendering.
func (s *ExportService) Submit(ctx context.Context, createdBy string, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	switch req.Type {
	case models.ExportTypeCalendar, models.ExportTypeProgress:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export type")
	}
	switch req.Format {
	case models.ExportFormatCSV, models.ExportFormatPDF:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	job := &models.ExportJob{
		Type:      req.Type,
		Format:    req.Format,
		SubjectID: req.SubjectID,
		Status:    models.ExportStatusQueued,
		CreatedBy: createdBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		s.markFailed(ctx, job.ID, "queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// Status reports the current state of an export job.
func (s *ExportService) Status(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, ResultURL: job.ResultURL, Error: job.ErrorMessage}, nil
}

// Process is the queue handler. It renders the job's dataset and records
// the outcome on the job row.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	job, err := s.repo.GetByID(ctx, queued.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", queued.ID, err)
	}
	processing := models.ExportStatusProcessing
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		s.logger.Sugar().Warnw("failed to mark export job processing", "job_id", job.ID, "error", err)
	}

	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		s.markFailed(ctx, job.ID, err.Error())
		return nil
	}

	var payload []byte
	switch job.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		s.markFailed(ctx, job.ID, err.Error())
		return nil
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.markFailed(ctx, job.ID, "failed to store export file")
		return nil
	}
	token, _, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		s.markFailed(ctx, job.ID, "failed to sign download token")
		return nil
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	resultURL := fmt.Sprintf("%s/exports/download/%s", prefix, token)
	finished := models.ExportStatusFinished
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:     &finished,
		ResultURL:  &resultURL,
		FinishedAt: &now,
	}); err != nil {
		s.logger.Sugar().Errorw("failed to finalise export job", "job_id", job.ID, "error", err)
	}
	return nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to a stored export file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes stored files older than ttl, defaulting to ResultTTL.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) markFailed(ctx context.Context, jobID, message string) {
	failed := models.ExportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Sugar().Errorw("failed to mark export job failed", "job_id", jobID, "error", err)
	}
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", job.Type, sanitizeFilename(job.SubjectID), timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypeCalendar:
		return s.buildCalendarDataset(ctx, job.SubjectID)
	case models.ExportTypeProgress:
		return s.buildProgressDataset(ctx, job.SubjectID)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) buildCalendarDataset(ctx context.Context, contractID string) (export.Dataset, string, error) {
	sessions, err := s.sessions.GetByContractID(ctx, contractID)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		mode := "offline"
		if session.IsOnline {
			mode = "online"
		}
		rows = append(rows, map[string]string{
			"Date":   session.Date.Format(dateLayout),
			"Start":  session.StartTime,
			"End":    session.EndTime,
			"Mode":   mode,
			"Status": string(session.Status),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Date", "Start", "End", "Mode", "Status"},
		Rows:    rows,
	}
	return dataset, fmt.Sprintf("Session Calendar %s", contractID), nil
}

func (s *ExportService) buildProgressDataset(ctx context.Context, contractID string) (export.Dataset, string, error) {
	progress, err := s.progress.GetChildUnitProgress(ctx, contractID)
	if err != nil {
		return export.Dataset{}, "", err
	}
	rows := make([]map[string]string, 0, len(progress.UnitsProgress))
	for _, entry := range progress.UnitsProgress {
		homework := "no"
		if entry.HasHomework {
			homework = "yes"
		}
		rows = append(rows, map[string]string{
			"Unit":          entry.UnitName,
			"Order":         fmt.Sprintf("%d", entry.OrderIndex),
			"Times Learned": fmt.Sprintf("%d", entry.TimesLearned),
			"On Track (%)":  fmt.Sprintf("%.0f", entry.OnTrackRatio*100),
			"Homework":      homework,
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Unit", "Order", "Times Learned", "On Track (%)", "Homework"},
		Rows:    rows,
	}
	return dataset, fmt.Sprintf("Unit Progress %s", progress.ChildID), nil
}
