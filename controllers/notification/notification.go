package notificationControllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// LowStockThreshold is the stock level at or below which sellers get a
// low-stock alert after a sale.
const LowStockThreshold = 5

// Create writes a notification for a user, honoring the notification
// preferences stored on their seller profile. Users without a seller
// profile (buyers) always receive.
func Create(db *gorm.DB, userID uint, notificationType, title, message string) error {
	var info models.SellerInfo
	err := db.Where("user_id = ?", userID).First(&info).Error
	if err == nil && !info.Preferences().Enabled(notificationType) {
		return nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	return db.Create(&models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	}).Error
}

// NotifyNewOrder alerts a seller that an order containing their
// products was placed.
func NotifyNewOrder(db *gorm.DB, sellerID, orderID uint) {
	err := Create(db, sellerID, models.NotificationOrderUpdates,
		"New Order Received",
		fmt.Sprintf("Order #%d has been placed. Check the orders page for details.", orderID))
	if err != nil {
		log.Printf("failed to create new-order notification for seller %d: %v", sellerID, err)
	}
}

// NotifyLowStock alerts a seller that a product is running out.
func NotifyLowStock(db *gorm.DB, sellerID uint, productName string, currentStock int) {
	err := Create(db, sellerID, models.NotificationLowStock,
		"Low Stock Alert",
		fmt.Sprintf("Product '%s' is running low on stock (Current stock: %d).", productName, currentStock))
	if err != nil {
		log.Printf("failed to create low-stock notification for seller %d: %v", sellerID, err)
	}
}

// NotificationsHandler serves the polled notification actions. The
// client posts a form with an "action" discriminator.
//
// POST /notifications
func NotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := middleware.GetAuth(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
			return
		}

		switch c.PostForm("action") {
		case "mark_read":
			id, err := strconv.ParseUint(c.PostForm("notification_id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
				return
			}
			if err := db.Model(&models.Notification{}).
				Where("id = ? AND user_id = ?", id, auth.UserID).
				Update("is_read", true).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notification as read"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})

		case "mark_all_read":
			if err := db.Model(&models.Notification{}).
				Where("user_id = ?", auth.UserID).
				Update("is_read", true).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark all notifications as read"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "All notifications marked as read"})

		case "delete":
			id, err := strconv.ParseUint(c.PostForm("notification_id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
				return
			}
			if err := db.Where("id = ? AND user_id = ?", id, auth.UserID).
				Delete(&models.Notification{}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete notification"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification deleted"})

		case "get_notifications":
			var notifications []models.Notification
			if err := db.Where("user_id = ?", auth.UserID).
				Order("created_at DESC").
				Limit(10).
				Find(&notifications).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch notifications"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})

		case "get_unread_count":
			var count int64
			if err := db.Model(&models.Notification{}).
				Where("user_id = ? AND is_read = ?", auth.UserID, false).
				Count(&count).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch unread count"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "count": count})

		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown action"})
		}
	}
}
