// Package handler exposes the in-app notification feed over HTTP. The feed
// is scoped to the authenticated member; member accounts map one-to-one to
// user accounts.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/internal/notification/inapp"
	"leadflow_backend/platform/httpkit"
)

type HTTPHandler struct {
	svc *inapp.Service
}

func NewHTTPHandler(svc *inapp.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.GET("/unread-count", h.UnreadCount)
	group.PUT("/:id/read", h.MarkRead)
	group.PUT("/read-all", h.MarkAllRead)
}

// List returns the caller's notification feed, newest first.
// GET /api/v1/notifications?page=&pageSize=
func (h *HTTPHandler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	items, total, err := h.svc.List(c.Request.Context(), identity.TenantID(), identity.UserID(), page, pageSize)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items, "total": total})
}

// UnreadCount returns the caller's unread notification count.
// GET /api/v1/notifications/unread-count
func (h *HTTPHandler) UnreadCount(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	count, err := h.svc.CountUnread(c.Request.Context(), identity.TenantID(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"count": count})
}

// MarkRead marks a single notification as read.
// PUT /api/v1/notifications/:id/read
func (h *HTTPHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification ID", nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), identity.TenantID(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"id": id, "read": true})
}

// MarkAllRead marks the caller's entire feed as read.
// PUT /api/v1/notifications/read-all
func (h *HTTPHandler) MarkAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), identity.TenantID(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"read": true})
}
