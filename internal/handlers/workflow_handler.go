package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asifshaikgit/workforce-sub006/internal/middleware"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// routeKinds maps URL path segments to entity kinds.
var routeKinds = map[string]models.EntityKind{
	"timesheets":            models.KindTimesheet,
	"ledgers":               models.KindLedger,
	"expenses":              models.KindExpense,
	"self-service-requests": models.KindSelfService,
}

// WorkflowHandler handles the lifecycle endpoints shared by all approvable
// entity kinds: submit, approve, reject, decisions, history.
type WorkflowHandler struct {
	workflow *services.WorkflowService
	entities *services.EntityService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(workflow *services.WorkflowService, entities *services.EntityService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow, entities: entities}
}

func (h *WorkflowHandler) parseTarget(c *gin.Context) (models.EntityKind, uuid.UUID, uuid.UUID, bool) {
	kind, ok := routeKinds[c.Param("kind")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown entity kind"})
		return "", uuid.Nil, uuid.Nil, false
	}

	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity id"})
		return "", uuid.Nil, uuid.Nil, false
	}

	actorID, err := middleware.ActorID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return "", uuid.Nil, uuid.Nil, false
	}

	return kind, entityID, actorID, true
}

type decisionInput struct {
	Comment string `json:"comment"`
}

// Submit submits an entity for approval
// @Summary Submit entity for approval
// @Tags Workflow
// @Produce json
// @Param kind path string true "Entity kind (timesheets, ledgers, expenses, self-service-requests)"
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id}/submit [post]
func (h *WorkflowHandler) Submit(c *gin.Context) {
	kind, entityID, actorID, ok := h.parseTarget(c)
	if !ok {
		return
	}

	entity, err := h.workflow.Submit(c.Request.Context(), kind, entityID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Approve records one approval at the entity's current level
// @Summary Approve entity
// @Tags Workflow
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Param request body decisionInput false "Decision comment"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id}/approve [post]
func (h *WorkflowHandler) Approve(c *gin.Context) {
	kind, entityID, actorID, ok := h.parseTarget(c)
	if !ok {
		return
	}

	var input decisionInput
	_ = c.ShouldBindJSON(&input)

	entity, err := h.workflow.Approve(c.Request.Context(), kind, entityID, actorID, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Reject rejects an in-flight entity
// @Summary Reject entity
// @Tags Workflow
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Param request body decisionInput false "Decision comment"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id}/reject [post]
func (h *WorkflowHandler) Reject(c *gin.Context) {
	kind, entityID, actorID, ok := h.parseTarget(c)
	if !ok {
		return
	}

	var input decisionInput
	_ = c.ShouldBindJSON(&input)

	entity, err := h.workflow.Reject(c.Request.Context(), kind, entityID, actorID, input.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Decisions lists the approve/reject actions of the current cycle
// @Summary List decisions of current cycle
// @Tags Workflow
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id}/decisions [get]
func (h *WorkflowHandler) Decisions(c *gin.Context) {
	kind, entityID, _, ok := h.parseTarget(c)
	if !ok {
		return
	}

	actions, err := h.workflow.Decisions(c.Request.Context(), kind, entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"decisions": actions, "total": len(actions)})
}

// History returns the audit trail of an entity, newest first
// @Summary Get entity activity history
// @Tags Workflow
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/{kind}/{id}/history [get]
func (h *WorkflowHandler) History(c *gin.Context) {
	kind, entityID, _, ok := h.parseTarget(c)
	if !ok {
		return
	}
	tenantID := c.GetString("tenant_id")

	tracks, err := h.entities.History(c.Request.Context(), tenantID, kind, entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": tracks, "total": len(tracks)})
}
