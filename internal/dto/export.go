package dto

import "github.com/edulink-id/tutor-api/internal/models"

// ExportRequest asks for an asynchronous calendar or progress export.
type ExportRequest struct {
	Type      models.ExportType   `json:"type" validate:"required"`
	Format    models.ExportFormat `json:"format" validate:"required"`
	SubjectID string              `json:"subject_id" validate:"required"`
}

// ExportJobResponse reports job identity and state back to the caller.
type ExportJobResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
