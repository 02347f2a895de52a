package models

import "time"

// ExportType selects which dataset an export job renders.
type ExportType string

// Supported export types.
const (
	ExportTypeCalendar ExportType = "calendar"
	ExportTypeProgress ExportType = "progress"
)

// ExportFormat selects the output encoding.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus tracks an export job through the queue.
type ExportStatus string

// Possible export job statuses.
const (
	ExportStatusQueued     ExportStatus = "queued"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusFinished   ExportStatus = "finished"
	ExportStatusFailed     ExportStatus = "failed"
)

// ExportJob is one asynchronous calendar/progress export request.
type ExportJob struct {
	ID           string       `db:"id" json:"id"`
	Type         ExportType   `db:"export_type" json:"type"`
	Format       ExportFormat `db:"format" json:"format"`
	SubjectID    string       `db:"subject_id" json:"subject_id"`
	Status       ExportStatus `db:"status" json:"status"`
	ResultURL    *string      `db:"result_url" json:"result_url,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error_message,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}
