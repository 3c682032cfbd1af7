package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// RecurrenceHandler handles recurring configuration endpoints.
type RecurrenceHandler struct {
	repo repository.Interface
}

// NewRecurrenceHandler creates a new RecurrenceHandler
func NewRecurrenceHandler(repo repository.Interface) *RecurrenceHandler {
	return &RecurrenceHandler{repo: repo}
}

type recurringConfigInput struct {
	LedgerID      uuid.UUID        `json:"ledgerId" binding:"required"`
	CycleType     models.CycleType `json:"cycleType" binding:"required"`
	IntervalCount int              `json:"intervalCount"`
	StartDate     time.Time        `json:"startDate" binding:"required"`
	EndDate       *time.Time       `json:"endDate"`
	NeverExpires  bool             `json:"neverExpires"`
}

// Create registers a recurring schedule over a template ledger
// @Summary Create recurring configuration
// @Tags Recurrence
// @Accept json
// @Produce json
// @Param request body recurringConfigInput true "Recurring configuration"
// @Success 201 {object} models.RecurringConfiguration
// @Router /api/v1/recurring-configurations [post]
func (h *RecurrenceHandler) Create(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var input recurringConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.CycleType {
	case models.CycleDay, models.CycleWeek, models.CycleMonth, models.CycleYear:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cycleType must be one of day, week, month, year"})
		return
	}
	if !input.NeverExpires && input.EndDate == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate is required unless neverExpires is set"})
		return
	}

	interval := input.IntervalCount
	if interval < 1 {
		interval = 1
	}

	// The template must exist before a schedule can reference it.
	if _, err := h.repo.GetApprovable(c.Request.Context(), models.KindLedger, input.LedgerID); err != nil {
		respondError(c, services.ErrEntityNotFound)
		return
	}

	cfg := &models.RecurringConfiguration{
		TenantID:      tenantID,
		EntityKind:    models.KindLedger,
		EntityID:      input.LedgerID,
		CycleType:     input.CycleType,
		IntervalCount: interval,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		NeverExpires:  input.NeverExpires,
		IsActive:      true,
	}
	if err := h.repo.CreateRecurringConfig(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cfg)
}

// Get retrieves a recurring configuration
// @Summary Get recurring configuration
// @Tags Recurrence
// @Produce json
// @Param id path string true "Configuration ID"
// @Success 200 {object} models.RecurringConfiguration
// @Router /api/v1/recurring-configurations/{id} [get]
func (h *RecurrenceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid configuration id"})
		return
	}

	cfg, err := h.repo.GetRecurringConfig(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "recurring configuration not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}
