package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/service"
	"nodex/backend/pkg/apperrors"
	"nodex/backend/pkg/response"
)

// NotificationHandler serves the notification feed endpoints.
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler creates the NotificationHandler.
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List returns the caller's notification feed.
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query: "+err.Error())
		return
	}

	list, total, err := h.notificationSvc.List(c.Request.Context(), userID, role, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// UnreadCount returns the caller's unread badge counter.
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, dto.UnreadCountResponse{Unread: count})
}

// MarkRead marks one notification as read.
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "notification id is required")
		return
	}

	if err := h.notificationSvc.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// MarkAllRead marks the caller's whole feed as read.
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	n, err := h.notificationSvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, gin.H{"marked": n})
}

func (h *NotificationHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 24404, err.Error())
	case errors.Is(err, apperrors.ErrStorageTimeout):
		response.Error(c, http.StatusServiceUnavailable, 24503, "storage timed out, try again")
	default:
		response.InternalError(c)
	}
}
