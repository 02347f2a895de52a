package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulink-id/tutor-api/internal/models"
	"github.com/edulink-id/tutor-api/internal/service"
	appErrors "github.com/edulink-id/tutor-api/pkg/errors"
	"github.com/edulink-id/tutor-api/pkg/response"
)

// ContractHandler wires HTTP endpoints to the contract service.
type ContractHandler struct {
	service *service.ContractService
}

// NewContractHandler creates a new handler.
func NewContractHandler(svc *service.ContractService) *ContractHandler {
	return &ContractHandler{service: svc}
}

// Create godoc
// @Summary Create contract
// @Description Create a tutoring contract and generate its session calendar
// @Tags Contracts
// @Accept json
// @Produce json
// @Param payload body service.CreateContractRequest true "Contract payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid contract payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleParent {
		req.ParentID = claims.UserID
	}

	id, err := h.service.CreateContract(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": id})
}

// UpdateStatus godoc
// @Summary Update contract status
// @Description Apply a lifecycle transition to a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param payload body object true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contracts/{id}/status [patch]
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "status required"))
		return
	}

	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}
	updated, err := h.service.UpdateContractStatus(c.Request.Context(), c.Param("id"), payload.Status, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"updated": updated}, nil)
}

// AssignTutor godoc
// @Summary Assign main tutor
// @Description Set the contract's main tutor and regenerate its sessions
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID"
// @Param payload body object true "Tutor payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contracts/{id}/tutor [put]
func (h *ContractHandler) AssignTutor(c *gin.Context) {
	var payload struct {
		MainTutorID string `json:"main_tutor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "main_tutor_id required"))
		return
	}

	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}
	updated, err := h.service.AssignTutors(c.Request.Context(), c.Param("id"), payload.MainTutorID, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"updated": updated}, nil)
}

// ListMine godoc
// @Summary List own contracts
// @Description List contracts belonging to the authenticated parent
// @Tags Contracts
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /contracts/mine [get]
func (h *ContractHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	summaries, err := h.service.GetContractsByParent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summaries, nil)
}

// ListAll godoc
// @Summary List all contracts
// @Description List every contract with display details (staff only)
// @Tags Contracts
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /contracts [get]
func (h *ContractHandler) ListAll(c *gin.Context) {
	summaries, err := h.service.GetAllContracts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summaries, nil)
}
