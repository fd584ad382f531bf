package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/internal/automation/repository"
	"leadflow_backend/internal/automation/service"
	"leadflow_backend/internal/automation/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// Handler handles HTTP requests for automation rules.
type Handler struct {
	rules *service.Rules
	val   *validator.Validator
}

// New creates a new automation rules handler.
func New(rules *service.Rules, val *validator.Validator) *Handler {
	return &Handler{rules: rules, val: val}
}

// RegisterRoutes mounts the automation routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/rules", h.List)
	group.POST("/rules", h.Create)
	group.PUT("/rules/:id/active", h.SetActive)
}

// List returns all of the tenant's automation rules.
// GET /api/v1/automation/rules
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	rules, err := h.rules.List(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToRuleListResponse(rules))
}

// Create registers an automation rule for a pipeline stage.
// POST /api/v1/automation/rules
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.rules.Create(c.Request.Context(), repository.CreateRuleParams{
		TenantID:      identity.TenantID(),
		PipelineStage: req.PipelineStage,
		Active:        active,
		TaskTemplates: transport.ToTemplates(req.TaskTemplates),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToRuleResponse(rule))
}

// SetActive toggles a rule on or off.
// PUT /api/v1/automation/rules/:id/active
func (h *Handler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid rule ID", nil)
		return
	}
	var req transport.SetRuleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.rules.SetActive(c.Request.Context(), id, identity.TenantID(), *req.Active); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"id": id, "active": *req.Active})
}
