package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/application/engagement"
)

// NotificationHandler exposes per-user notification endpoints plus a
// staff-only send endpoint.
type NotificationHandler struct {
	BaseHandler
	notificationService *engagement.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *engagement.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Notify sends a notification to a user (staff only)
// POST /api/v1/notifications
func (h *NotificationHandler) Notify(c *gin.Context) {
	var req engagement.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	notification, err := h.notificationService.Notify(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, notification)
}

// List returns the current user's notifications, newest first
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := bindFilter(c)

	result, err := h.notificationService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// CountUnread returns the current user's unread notification count
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}

// MarkRead marks one of the current user's notifications as read
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID format")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notification)
}
