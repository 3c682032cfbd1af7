package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/asifshaikgit/workforce-sub006/internal/middleware"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// EntityHandler handles CRUD for the approvable entity kinds plus their
// kind-specific lifecycle branches (void, close/reopen/cancel).
type EntityHandler struct {
	entities *services.EntityService
	workflow *services.WorkflowService
}

// NewEntityHandler creates a new EntityHandler
func NewEntityHandler(entities *services.EntityService, workflow *services.WorkflowService) *EntityHandler {
	return &EntityHandler{entities: entities, workflow: workflow}
}

// Get retrieves one entity
// @Summary Get entity
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id} [get]
func (h *EntityHandler) Get(c *gin.Context) {
	kind, ok := routeKinds[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity kind"})
		return
	}
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), kind, entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Delete soft-deletes one entity
// @Summary Delete entity
// @Tags Entities
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 204
// @Router /api/v1/{kind}/{id} [delete]
func (h *EntityHandler) Delete(c *gin.Context) {
	kind, ok := routeKinds[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity kind"})
		return
	}
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	if err := h.entities.Delete(c.Request.Context(), kind, entityID, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Timesheets ---

type timesheetInput struct {
	ClientID    *uuid.UUID `json:"clientId"`
	SettingID   *uuid.UUID `json:"approvalSettingId"`
	PeriodStart time.Time  `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time  `json:"periodEnd" binding:"required"`
	TotalHours  float64    `json:"totalHours"`
	Notes       string     `json:"notes"`
	DocumentID  *uuid.UUID `json:"documentId"`
}

// CreateTimesheet creates a draft timesheet
// @Summary Create timesheet
// @Tags Entities
// @Accept json
// @Produce json
// @Param request body timesheetInput true "Timesheet"
// @Success 201 {object} models.Timesheet
// @Router /api/v1/timesheets [post]
func (h *EntityHandler) CreateTimesheet(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input timesheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timesheet := &models.Timesheet{
		TenantID:    tenantID,
		EmployeeID:  actorID,
		ClientID:    input.ClientID,
		SettingID:   input.SettingID,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		TotalHours:  input.TotalHours,
		Notes:       input.Notes,
		DocumentID:  input.DocumentID,
	}
	if err := h.entities.Create(c.Request.Context(), timesheet, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, timesheet)
}

// UpdateTimesheet edits a draft or rejected timesheet
// @Summary Update timesheet
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Timesheet ID"
// @Param request body timesheetInput true "Timesheet"
// @Success 200 {object} models.Timesheet
// @Router /api/v1/timesheets/{id} [put]
func (h *EntityHandler) UpdateTimesheet(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input timesheetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), models.KindTimesheet, entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	timesheet := entity.(*models.Timesheet)
	before := *timesheet

	timesheet.ClientID = input.ClientID
	timesheet.SettingID = input.SettingID
	timesheet.PeriodStart = input.PeriodStart
	timesheet.PeriodEnd = input.PeriodEnd
	timesheet.TotalHours = input.TotalHours
	timesheet.Notes = input.Notes
	timesheet.DocumentID = input.DocumentID

	if err := h.entities.Update(c.Request.Context(), &before, timesheet, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, timesheet)
}

// --- Ledgers ---

type ledgerInput struct {
	Reference  string     `json:"reference" binding:"required"`
	ClientID   *uuid.UUID `json:"clientId"`
	SettingID  *uuid.UUID `json:"approvalSettingId"`
	IssueDate  time.Time  `json:"issueDate" binding:"required"`
	DueDate    *time.Time `json:"dueDate"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	DocumentID *uuid.UUID `json:"documentId"`
}

// CreateLedger creates a draft ledger
// @Summary Create ledger
// @Tags Entities
// @Accept json
// @Produce json
// @Param request body ledgerInput true "Ledger"
// @Success 201 {object} models.Ledger
// @Router /api/v1/ledgers [post]
func (h *EntityHandler) CreateLedger(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input ledgerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	ledger := &models.Ledger{
		TenantID:    tenantID,
		Reference:   input.Reference,
		CreatedByID: actorID,
		ClientID:    input.ClientID,
		SettingID:   input.SettingID,
		IssueDate:   input.IssueDate,
		DueDate:     input.DueDate,
		Amount:      input.Amount,
		Currency:    currency,
		DocumentID:  input.DocumentID,
	}
	if err := h.entities.Create(c.Request.Context(), ledger, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ledger)
}

// UpdateLedger edits a draft or rejected ledger
// @Summary Update ledger
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Ledger ID"
// @Param request body ledgerInput true "Ledger"
// @Success 200 {object} models.Ledger
// @Router /api/v1/ledgers/{id} [put]
func (h *EntityHandler) UpdateLedger(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input ledgerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), models.KindLedger, entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	ledger := entity.(*models.Ledger)
	before := *ledger

	ledger.Reference = input.Reference
	ledger.ClientID = input.ClientID
	ledger.SettingID = input.SettingID
	ledger.IssueDate = input.IssueDate
	ledger.DueDate = input.DueDate
	ledger.Amount = input.Amount
	if input.Currency != "" {
		ledger.Currency = input.Currency
	}
	ledger.DocumentID = input.DocumentID

	if err := h.entities.Update(c.Request.Context(), &before, ledger, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

type voidInput struct {
	Reason string `json:"reason" binding:"required"`
}

// VoidLedger writes off an approved ledger
// @Summary Void ledger
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Ledger ID"
// @Param request body voidInput true "Void reason"
// @Success 200 {object} models.Ledger
// @Router /api/v1/ledgers/{id}/void [post]
func (h *EntityHandler) VoidLedger(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input voidInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ledger, err := h.workflow.VoidLedger(c.Request.Context(), entityID, actorID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// --- Expenses ---

type expenseInput struct {
	ClientID    *uuid.UUID `json:"clientId"`
	SettingID   *uuid.UUID `json:"approvalSettingId"`
	IncurredOn  time.Time  `json:"incurredOn" binding:"required"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount" binding:"required"`
	Currency    string     `json:"currency"`
	Description string     `json:"description"`
	ReceiptID   *uuid.UUID `json:"receiptId"`
}

// CreateExpense creates a draft expense
// @Summary Create expense
// @Tags Entities
// @Accept json
// @Produce json
// @Param request body expenseInput true "Expense"
// @Success 201 {object} models.Expense
// @Router /api/v1/expenses [post]
func (h *EntityHandler) CreateExpense(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	expense := &models.Expense{
		TenantID:    tenantID,
		EmployeeID:  actorID,
		ClientID:    input.ClientID,
		SettingID:   input.SettingID,
		IncurredOn:  input.IncurredOn,
		Category:    input.Category,
		Amount:      input.Amount,
		Currency:    currency,
		Description: input.Description,
		ReceiptID:   input.ReceiptID,
	}
	if err := h.entities.Create(c.Request.Context(), expense, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// UpdateExpense edits a draft or rejected expense
// @Summary Update expense
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body expenseInput true "Expense"
// @Success 200 {object} models.Expense
// @Router /api/v1/expenses/{id} [put]
func (h *EntityHandler) UpdateExpense(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input expenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), models.KindExpense, entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	expense := entity.(*models.Expense)
	before := *expense

	expense.ClientID = input.ClientID
	expense.SettingID = input.SettingID
	expense.IncurredOn = input.IncurredOn
	expense.Category = input.Category
	expense.Amount = input.Amount
	if input.Currency != "" {
		expense.Currency = input.Currency
	}
	expense.Description = input.Description
	expense.ReceiptID = input.ReceiptID

	if err := h.entities.Update(c.Request.Context(), &before, expense, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// --- Self-service requests ---

type selfServiceInput struct {
	SettingID   *uuid.UUID     `json:"approvalSettingId"`
	RequestType string         `json:"requestType" binding:"required"`
	Subject     string         `json:"subject" binding:"required"`
	Detail      datatypes.JSON `json:"detail"`
}

// CreateSelfServiceRequest creates a draft self-service request
// @Summary Create self-service request
// @Tags Entities
// @Accept json
// @Produce json
// @Param request body selfServiceInput true "Request"
// @Success 201 {object} models.SelfServiceRequest
// @Router /api/v1/self-service-requests [post]
func (h *EntityHandler) CreateSelfServiceRequest(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input selfServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := &models.SelfServiceRequest{
		TenantID:    tenantID,
		EmployeeID:  actorID,
		SettingID:   input.SettingID,
		RequestType: input.RequestType,
		Subject:     input.Subject,
		Detail:      input.Detail,
	}
	if err := h.entities.Create(c.Request.Context(), request, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// UpdateSelfServiceRequest edits a draft or rejected self-service request
// @Summary Update self-service request
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body selfServiceInput true "Request"
// @Success 200 {object} models.SelfServiceRequest
// @Router /api/v1/self-service-requests/{id} [put]
func (h *EntityHandler) UpdateSelfServiceRequest(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	var input selfServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entity, err := h.entities.Get(c.Request.Context(), models.KindSelfService, entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	request := entity.(*models.SelfServiceRequest)
	before := *request

	request.SettingID = input.SettingID
	request.RequestType = input.RequestType
	request.Subject = input.Subject
	request.Detail = input.Detail

	if err := h.entities.Update(c.Request.Context(), &before, request, actorID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// CloseRequest closes an approved self-service request
// @Summary Close self-service request
// @Tags Entities
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.SelfServiceRequest
// @Router /api/v1/self-service-requests/{id}/close [post]
func (h *EntityHandler) CloseRequest(c *gin.Context) {
	h.selfServiceLifecycle(c, h.workflow.CloseRequest)
}

// ReopenRequest reopens a closed self-service request
// @Summary Reopen self-service request
// @Tags Entities
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.SelfServiceRequest
// @Router /api/v1/self-service-requests/{id}/reopen [post]
func (h *EntityHandler) ReopenRequest(c *gin.Context) {
	h.selfServiceLifecycle(c, h.workflow.ReopenRequest)
}

// CancelRequest cancels a closed self-service request
// @Summary Cancel self-service request
// @Tags Entities
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} models.SelfServiceRequest
// @Router /api/v1/self-service-requests/{id}/cancel [post]
func (h *EntityHandler) CancelRequest(c *gin.Context) {
	h.selfServiceLifecycle(c, h.workflow.CancelRequest)
}

func (h *EntityHandler) selfServiceLifecycle(c *gin.Context, transition func(ctx context.Context, entityID, actorID uuid.UUID) (*models.SelfServiceRequest, error)) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return
	}
	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	request, err := transition(c.Request.Context(), entityID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
