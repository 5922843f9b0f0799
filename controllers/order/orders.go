package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	notificationControllers "github.com/napzon/napzon-api/controllers/notification"
	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

var ErrOrderNotCancellable = errors.New("order not found or cannot be cancelled")

// CancelOrder cancels a buyer's own pending order, restoring each
// item's stock by exactly its ordered quantity before flipping the
// status. The restore and the status flip share one transaction.
func CancelOrder(db *gorm.DB, userID, orderID uint) error {
	var order models.Order
	err := db.Preload("Items").
		Where("id = ? AND user_id = ? AND status = ?", orderID, userID, models.OrderStatusPending).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotCancellable
		}
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&order).Update("status", models.OrderStatusCancelled).Error
	})
	if err != nil {
		return err
	}

	_ = notificationControllers.Create(db, userID, models.NotificationOrderStatus,
		"Order Cancelled",
		fmt.Sprintf("Your order #%d has been cancelled.", orderID))
	return nil
}

// POST /buyer/orders/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input struct {
			OrderID uint `form:"order_id" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		if err := CancelOrder(db, auth.UserID, input.OrderID); err != nil {
			if errors.Is(err, ErrOrderNotCancellable) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully"})
	}
}

// GET /buyer/orders
func GetBuyerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var orders []models.Order
		if err := db.Preload("Items").Preload("Items.Product").
			Where("user_id = ?", auth.UserID).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /buyer/orders/confirmation?order_id=N
func OrderConfirmationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		orderID, err := strconv.ParseUint(c.Query("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order id"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Items.Product").
			Where("id = ? AND user_id = ?", orderID, auth.UserID).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}
