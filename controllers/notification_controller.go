// File: /controllers/notification_controller.go
package controllers

import (
	"foodshare-api/services"
	"foodshare-api/utils"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"strconv"
)

type NotificationController struct {
	notificationService *services.NotificationService
	logger              *slog.Logger
}

func NewNotificationController(notificationService *services.NotificationService, logger *slog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetNotifications gets paginated notifications for the current user
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := nc.notificationService.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, nc.logger, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetNotificationStats gets notification statistics for the current user
func (nc *NotificationController) GetNotificationStats(c *gin.Context) {
	userID := c.GetString("user_id")

	stats, err := nc.notificationService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, nc.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// MarkAsRead marks a specific notification as read
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	userID := c.GetString("user_id")
	notificationID := c.Param("id")

	if err := nc.notificationService.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		respondError(c, nc.logger, err)
		return
	}

	utils.SendMessage(c, "Notification marked as read")
}

// MarkAllAsRead marks all notifications as read for the current user
func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	userID := c.GetString("user_id")

	updated, err := nc.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, nc.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "All notifications marked as read",
		"updated_count": updated,
	})
}
