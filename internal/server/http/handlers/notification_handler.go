package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/solarstore/internal/server/http/dto"
)

// NotificationHandler serves the in-app notification inbox.
type NotificationHandler struct {
	facade NotificationFacade
}

func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := CurrentUserID(c)
	page := parsePage(c)

	items, total, err := h.facade.Notifications(ctx, userID, c.Query("unread") == "true", page)
	if err != nil {
		writeError(c, err)
		return
	}
	unread, err := h.facade.UnreadNotifications(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.NotificationListResponse{
		Notifications: dto.NewNotificationList(items),
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(page, total),
	})
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.facade.UnreadNotifications(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"count": count})
}

// MarkRead handles PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.setRead(c, true)
}

// MarkUnread handles PUT /api/notifications/:id/unread.
func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	h.setRead(c, false)
}

// MarkAllRead handles PUT /api/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.facade.MarkAllNotificationsRead(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) setRead(c *gin.Context, read bool) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := h.facade.SetNotificationRead(c.Request.Context(), CurrentUserID(c), id, read); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "isRead": read})
}
