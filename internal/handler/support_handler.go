package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/service"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
	"github.com/edulink-id/tutor-api/pkg/response"
)

// SupportHandler wires HTTP endpoints to the support ticket service.
type SupportHandler struct {
	service *service.SupportService
}

// NewSupportHandler creates a new handler.
func NewSupportHandler(svc *service.SupportService) *SupportHandler {
	return &SupportHandler{service: svc}
}

// Open godoc
// @Summary Open support ticket
// @Tags Support
// @Accept json
// @Produce json
// @Param payload body service.OpenTicketRequest true "Ticket payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /support [post]
func (h *SupportHandler) Open(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.OpenTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ticket payload"))
		return
	}

	ticket, err := h.service.Open(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, ticket)
}

// Respond godoc
// @Summary Respond to ticket
// @Description Move a ticket along its triage states with an optional reply
// @Tags Support
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body service.ResolveTicketRequest true "Response payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /support/{id} [patch]
func (h *SupportHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.ResolveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	ticket, err := h.service.Respond(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ticket, nil)
}

// ListMine godoc
// @Summary List own tickets
// @Tags Support
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /support/mine [get]
func (h *SupportHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	tickets, err := h.service.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tickets, nil)
}
