package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// ChainHandler handles HTTP requests for approval chain configuration
type ChainHandler struct {
	service *services.ChainService
}

// NewChainHandler creates a new ChainHandler
func NewChainHandler(service *services.ChainService) *ChainHandler {
	return &ChainHandler{service: service}
}

// CreateSetting creates an approval chain
// @Summary Create approval chain
// @Tags ApprovalChains
// @Accept json
// @Produce json
// @Param request body services.CreateSettingInput true "Chain definition"
// @Success 201 {object} models.ApprovalSetting
// @Router /api/v1/approval-settings [post]
func (h *ChainHandler) CreateSetting(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	if tenantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id is required"})
		return
	}

	var input services.CreateSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.service.CreateSetting(c.Request.Context(), tenantID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, setting)
}

// GetSetting retrieves an approval chain with levels and approvers
// @Summary Get approval chain
// @Tags ApprovalChains
// @Produce json
// @Param id path string true "Setting ID"
// @Success 200 {object} models.ApprovalSetting
// @Router /api/v1/approval-settings/{id} [get]
func (h *ChainHandler) GetSetting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}

	setting, err := h.service.GetSetting(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

// ListSettings lists a tenant's approval chains
// @Summary List approval chains
// @Tags ApprovalChains
// @Produce json
// @Param module query string false "Module filter (timesheet, invoice, expense, self_service)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/approval-settings [get]
func (h *ChainHandler) ListSettings(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	module := models.Module(c.Query("module"))
	settings, err := h.service.ListSettings(c.Request.Context(), tenantID, module)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings, "total": len(settings)})
}

// DeleteSetting soft-deletes an approval chain
// @Summary Delete approval chain
// @Tags ApprovalChains
// @Param id path string true "Setting ID"
// @Success 204
// @Router /api/v1/approval-settings/{id} [delete]
func (h *ChainHandler) DeleteSetting(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}

	if err := h.service.DeleteSetting(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddLevel inserts a level into a chain
// @Summary Insert approval level
// @Tags ApprovalChains
// @Accept json
// @Produce json
// @Param id path string true "Setting ID"
// @Param request body services.AddLevelInput true "Level insertion"
// @Success 201 {object} models.ApprovalLevel
// @Router /api/v1/approval-settings/{id}/levels [post]
func (h *ChainHandler) AddLevel(c *gin.Context) {
	settingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}

	var input services.AddLevelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level, err := h.service.AddLevel(c.Request.Context(), settingID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, level)
}

// RemoveLevel deletes a level and renumbers the remaining ranks
// @Summary Remove approval level
// @Tags ApprovalChains
// @Param id path string true "Level ID"
// @Success 204
// @Router /api/v1/approval-levels/{id} [delete]
func (h *ChainHandler) RemoveLevel(c *gin.Context) {
	levelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return
	}

	if err := h.service.RemoveLevel(c.Request.Context(), levelID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addApproverInput struct {
	ApproverID uuid.UUID `json:"approverId" binding:"required"`
}

// AddApprover assigns an approver to a level
// @Summary Add approver to level
// @Tags ApprovalChains
// @Accept json
// @Produce json
// @Param id path string true "Level ID"
// @Param request body addApproverInput true "Approver assignment"
// @Success 201 {object} models.ApprovalApprover
// @Router /api/v1/approval-levels/{id}/approvers [post]
func (h *ChainHandler) AddApprover(c *gin.Context) {
	levelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid level id"})
		return
	}

	var input addApproverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	approver, err := h.service.AddApprover(c.Request.Context(), levelID, input.ApproverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, approver)
}

// RemoveApprover removes one approver assignment
// @Summary Remove approver from level
// @Tags ApprovalChains
// @Param id path string true "Approver assignment ID"
// @Success 204
// @Router /api/v1/approval-approvers/{id} [delete]
func (h *ChainHandler) RemoveApprover(c *gin.Context) {
	approverRowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid approver id"})
		return
	}

	if err := h.service.RemoveApprover(c.Request.Context(), approverRowID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps service errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	// A missing global default is a configuration integrity failure, not
	// something the caller can retry; surface it as a server error and
	// log it for alerting.
	if errors.Is(err, services.ErrNoApplicableChain) {
		logrus.WithError(err).WithField("path", c.FullPath()).
			Error("No approval chain resolved; tenant is missing its global default")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approval configuration missing"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrEntityNotFound),
		errors.Is(err, services.ErrSettingNotFound),
		errors.Is(err, services.ErrLevelNotFound),
		errors.Is(err, services.ErrApproverNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorizedApprover),
		errors.Is(err, services.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrDuplicateApproverInLevel),
		errors.Is(err, services.ErrLastApproverInLevel),
		errors.Is(err, services.ErrLastLevelInSetting):
		status = http.StatusConflict
	case errors.Is(err, services.ErrRankCountMismatch),
		errors.Is(err, services.ErrRankSequenceGap),
		errors.Is(err, services.ErrNoApproverAssigned),
		errors.Is(err, services.ErrNoMoreOccurrences):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "An internal error occurred"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
