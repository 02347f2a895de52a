package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/service"
	"github.com/edulink-id/tutor-api/pkg/response"
)

// ProgressHandler wires HTTP endpoints to progress and forecast services.
type ProgressHandler struct {
	progress *service.ProgressService
	forecast *service.ForecastService
}

// NewProgressHandler creates a new handler.
func NewProgressHandler(progress *service.ProgressService, forecast *service.ForecastService) *ProgressHandler {
	return &ProgressHandler{progress: progress, forecast: forecast}
}

// GetContractProgress godoc
// @Summary Get unit progress
// @Description Aggregate a contract's daily reports into per-unit progress
// @Tags Progress
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contracts/{id}/progress [get]
func (h *ProgressHandler) GetContractProgress(c *gin.Context) {
	progress, err := h.progress.GetChildUnitProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, progress, nil)
}

// GetChildForecast godoc
// @Summary Get completion forecast
// @Description Project when a child finishes their curriculum window
// @Tags Progress
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{id}/forecast [get]
func (h *ProgressHandler) GetChildForecast(c *gin.Context) {
	forecast, err := h.forecast.GetLearningCompletionForecast(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, forecast, nil)
}
