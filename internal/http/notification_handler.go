package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/service"
)

// NotificationHandler holds dependencies for the notification endpoints.
type NotificationHandler struct {
	logger           *zap.Logger
	notificationServ *service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler with its dependencies.
func NewNotificationHandler(logger *zap.Logger, notificationServ *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		logger:           logger,
		notificationServ: notificationServ,
	}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	notifications, err := h.notificationServ.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
