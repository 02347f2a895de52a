package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/service"
	"github.com/edulink-id/tutor-api/pkg/response"
)

// StatsHandler wires HTTP endpoints to the statistics service.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new handler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Platform godoc
// @Summary Platform statistics
// @Description Staff dashboard counters: contracts, sessions, reports, tutors
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /stats/platform [get]
func (h *StatsHandler) Platform(c *gin.Context) {
	stats, err := h.service.PlatformSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats, nil)
}

// ChildTestAverages godoc
// @Summary Child test averages
// @Description Per-subject test score averages for a child
// @Tags Statistics
// @Produce json
// @Param id path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /children/{id}/test-averages [get]
func (h *StatsHandler) ChildTestAverages(c *gin.Context) {
	averages, err := h.service.ChildTestAverages(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, averages, nil)
}
