// Package notification provides HTTP handlers for the notification inbox.
package notification

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// NotificationController handles inbox related endpoints
type NotificationController struct {
	DB *database.DBinstanceStruct
}

// NewNotificationController creates a new instance of NotificationController.
func NewNotificationController(db *database.DBinstanceStruct) *NotificationController {
	return &NotificationController{
		DB: db,
	}
}

// MyNotifications returns the caller's inbox, newest first.
// @Summary Get own notifications
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param unread query boolean false "Only unread notifications if true"
// @Success 200 {array} model.Notification
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notification [get]
func (nc *NotificationController) MyNotifications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	result := nc.DB.Where("recipient_id = ?", user.ID)
	if c.Query("unread") == "true" {
		result = result.Where("is_read = false")
	}

	notifications := []model.Notification{}
	if err := result.Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch notifications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead marks one of the caller's notifications as read.
// @Summary Mark notification as read
// @Description Only the recipient can mark a notification as read
// @Tags Notification
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the notification"
// @Success 200 {object} model.Notification
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Notification not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /notification/{id}/read [patch]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	// scoping by recipient makes someone else's notification indistinguishable
	// from a missing one
	n := model.Notification{}
	if err := nc.DB.
		Where("id = ? AND recipient_id = ?", id, user.ID).
		First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve notification: %s", err.Error()),
		})
		return
	}

	if err := nc.DB.Model(&n).Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update notification: %s", err.Error()),
		})
		return
	}

	n.IsRead = true
	c.JSON(http.StatusOK, n)
}
