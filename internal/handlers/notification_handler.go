package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/issue-service/internal/services"
	"github.com/SAP-F-2025/issue-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	filters := parseNotificationFilters(c)
	notifications, total, err := h.notificationService.ListNotifications(c.Request.Context(), user, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Items:  notifications,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}
	user := h.currentUser(c)
	if user == nil {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), user)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
