package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/internal/tasks/service"
	"leadflow_backend/internal/tasks/transport"
	"leadflow_backend/platform/httpkit"
)

// Handler handles HTTP requests for tasks.
type Handler struct {
	svc *service.Service
}

// New creates a new tasks handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the tasks routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/due-today", h.DueToday)
	group.PUT("/:id/complete", h.Complete)
}

// List retrieves tasks filtered by member or lead.
// GET /api/v1/tasks?memberId=...&leadId=...&status=...
func (h *Handler) List(c *gin.Context) {
	var req transport.ListTasksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	ctx := c.Request.Context()
	tenantID := identity.TenantID()

	switch {
	case req.MemberID != "":
		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid member ID", nil)
			return
		}
		tasks, err := h.svc.ListByMember(ctx, tenantID, memberID, req.Status)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, transport.ToTaskListResponse(tasks))
	case req.LeadID != "":
		leadID, err := uuid.Parse(req.LeadID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
			return
		}
		tasks, err := h.svc.ListByLead(ctx, tenantID, leadID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, transport.ToTaskListResponse(tasks))
	default:
		httpkit.Error(c, http.StatusBadRequest, "memberId or leadId is required", nil)
	}
}

// DueToday lists pending tasks due in the current business day.
// GET /api/v1/tasks/due-today
func (h *Handler) DueToday(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	tasks, err := h.svc.DueToday(c.Request.Context(), identity.TenantID(), time.Now())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTaskListResponse(tasks))
}

// Complete marks a task as completed.
// PUT /api/v1/tasks/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid task ID", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	task, err := h.svc.Complete(c.Request.Context(), identity.TenantID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTaskResponse(task))
}
