package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

var (
	ErrOrderNotOwned     = errors.New("you don't have permission to update this order")
	ErrNoStatusChange    = errors.New("no status change needed")
	ErrInvalidTransition = errors.New("order cannot move to that status")
	ErrActionNotPending  = errors.New("order is no longer pending")
)

type ManageOrderInput struct {
	OrderID uint   `form:"order_id" binding:"required"`
	Status  string `form:"status"`
	Action  string `form:"action"` // "accept" or "decline"
}

// ManageOrder applies a seller-side status change. Both the direct
// status update and the accept/decline buttons are validated against
// the same transition table. A cancellation from a stock-holding status
// restores every item's quantity. The buyer is notified of any applied
// change inside the same transaction.
func ManageOrder(db *gorm.DB, sellerID uint, input ManageOrderInput) (models.OrderStatus, error) {
	var order models.Order
	err := db.Preload("Items").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.id = ? AND products.seller_id = ?", input.OrderID, sellerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrderNotOwned
		}
		return "", err
	}

	newStatus, message, err := resolveStatusChange(&order, input)
	if err != nil {
		return "", err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if newStatus == models.OrderStatusCancelled && order.Status.RestoresStock() {
			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		return tx.Create(&models.Notification{
			UserID:  order.UserID,
			Type:    models.NotificationOrderStatus,
			Title:   "Order Update",
			Message: message,
		}).Error
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// resolveStatusChange turns the request into a validated target status
// and the buyer-facing message describing it.
func resolveStatusChange(order *models.Order, input ManageOrderInput) (models.OrderStatus, string, error) {
	switch strings.ToLower(input.Action) {
	case "accept":
		if order.Status != models.OrderStatusPending {
			return "", "", ErrActionNotPending
		}
		return models.OrderStatusProcessing,
			fmt.Sprintf("Your order #%d has been accepted and is now processing.", order.ID), nil
	case "decline":
		if order.Status != models.OrderStatusPending {
			return "", "", ErrActionNotPending
		}
		return models.OrderStatusCancelled,
			fmt.Sprintf("Your order #%d has been declined.", order.ID), nil
	case "":
	default:
		return "", "", errors.New("invalid action")
	}

	newStatus, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		return "", "", err
	}
	if newStatus == order.Status {
		return "", "", ErrNoStatusChange
	}
	if !models.CanTransition(order.Status, newStatus) {
		return "", "", ErrInvalidTransition
	}
	return newStatus,
		fmt.Sprintf("Your order #%d has been updated to %s.", order.ID, newStatus), nil
}

// POST /seller/orders/manage
//
// Responds with JSON when the request carries the AJAX marker header,
// otherwise redirects back to the orders page with a flash message.
func ManageOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)
		isAJAX := c.GetHeader("X-Requested-With") == "XMLHttpRequest"

		respond := func(status int, success bool, message string, newStatus models.OrderStatus) {
			if isAJAX {
				body := gin.H{"success": success, "message": message}
				if newStatus != "" {
					body["new_status"] = newStatus
				}
				c.JSON(status, body)
				return
			}
			c.Redirect(http.StatusSeeOther, "/seller/orders?flash="+url.QueryEscape(message))
		}

		var input ManageOrderInput
		if err := c.ShouldBind(&input); err != nil {
			respond(http.StatusBadRequest, false, "Invalid request", "")
			return
		}

		newStatus, err := ManageOrder(db, auth.UserID, input)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotOwned):
				respond(http.StatusForbidden, false, err.Error(), "")
			case errors.Is(err, ErrNoStatusChange),
				errors.Is(err, ErrInvalidTransition),
				errors.Is(err, ErrActionNotPending):
				respond(http.StatusBadRequest, false, err.Error(), "")
			default:
				respond(http.StatusInternalServerError, false, "Failed to update order status", "")
			}
			return
		}
		respond(http.StatusOK, true, "Order status updated successfully", newStatus)
	}
}

// GET /seller/orders
func GetSellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var orders []models.Order
		if err := db.Preload("User").Preload("Items").Preload("Items.Product").
			Joins("JOIN order_items ON order_items.order_id = orders.id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", auth.UserID).
			Group("orders.id").
			Order("orders.created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}
