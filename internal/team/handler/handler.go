package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/internal/team/service"
	"leadflow_backend/internal/team/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for positions and members.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new team handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the team routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/positions", h.CreatePosition)
	group.GET("/positions", h.ListPositions)
	group.POST("/members", h.CreateMember)
	group.GET("/members", h.ListMembers)
	group.PUT("/members/:id/flags", h.SetMemberFlags)
}

// CreatePosition creates a new position.
// POST /api/v1/team/positions
func (h *Handler) CreatePosition(c *gin.Context) {
	var req transport.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	pos, err := h.svc.CreatePosition(c.Request.Context(), identity.TenantID(), req.Title)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToPositionResponse(pos))
}

// ListPositions lists the tenant's positions.
// GET /api/v1/team/positions
func (h *Handler) ListPositions(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	positions, err := h.svc.ListPositions(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.PositionResponse, 0, len(positions))
	for _, pos := range positions {
		items = append(items, transport.ToPositionResponse(pos))
	}
	httpkit.OK(c, items)
}

// CreateMember creates a new team member.
// POST /api/v1/team/members
func (h *Handler) CreateMember(c *gin.Context) {
	var req transport.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	member, err := h.svc.CreateMember(c.Request.Context(), identity.TenantID(), service.CreateMemberInput{
		PositionTitle: req.PositionTitle,
		Name:          req.Name,
		Email:         req.Email,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToMemberResponse(member))
}

// ListMembers lists the tenant's members.
// GET /api/v1/team/members
func (h *Handler) ListMembers(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), identity.TenantID())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, transport.ToMemberResponse(member))
	}
	httpkit.OK(c, items)
}

// SetMemberFlags toggles a member's active/available flags.
// PUT /api/v1/team/members/:id/flags
func (h *Handler) SetMemberFlags(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid member ID", nil)
		return
	}
	var req transport.SetMemberFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	member, err := h.svc.SetMemberFlags(c.Request.Context(), identity.TenantID(), id, *req.Active, *req.Available)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMemberResponse(member))
}
