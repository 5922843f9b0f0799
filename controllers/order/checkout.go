package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	notificationControllers "github.com/napzon/napzon-api/controllers/notification"
	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// ShippingFee is the flat fee added to every order.
var ShippingFee = decimal.NewFromInt(100)

var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError reports which product sold out between the
// cart view and the checkout decrement.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return "Not enough stock for " + e.ProductName
}

type CheckoutInput struct {
	FullName      string `form:"full_name"`
	Email         string `form:"email"`
	Phone         string `form:"phone"`
	Address       string `form:"address"`
	City          string `form:"city"`
	PostalCode    string `form:"postal_code"`
	PaymentMethod string `form:"payment_method"`
}

// MissingFields lists the required shipping fields not filled in.
func (in CheckoutInput) MissingFields() []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"full_name", in.FullName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"address", in.Address},
		{"city", in.City},
		{"postal_code", in.PostalCode},
		{"payment_method", in.PaymentMethod},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// sellerImpact is collected during checkout so notifications can go out
// after the transaction commits.
type sellerImpact struct {
	sellerID     uint
	lowStock     bool
	productName  string
	currentStock int
}

// PlaceOrder converts the buyer's cart into an order inside a single
// transaction: one Order row, one OrderItem per cart line with a price
// snapshot, a conditional stock decrement per product, then the cart is
// cleared. Any failure rolls the whole thing back.
//
// The conditional decrement (stock = stock - qty WHERE stock >= qty) is
// the authoritative stock check; the earlier cart validation can be
// stale by the time the buyer submits.
func PlaceOrder(db *gorm.DB, userID uint, input CheckoutInput) (*models.Order, error) {
	if missing := input.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("please fill in all required fields: %s", strings.Join(missing, ", "))
	}
	paymentMethod, err := models.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order models.Order
	var impacts []sellerImpact

	err = db.Transaction(func(tx *gorm.DB) error {
		var cartItems []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", userID).
			Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		subtotal := decimal.Zero
		for _, item := range cartItems {
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order = models.Order{
			UserID:             userID,
			TotalAmount:        subtotal,
			ShippingFee:        ShippingFee,
			Status:             models.OrderStatusPending,
			ShippingAddress:    input.Address,
			ShippingCity:       input.City,
			ShippingPostalCode: input.PostalCode,
			PaymentMethod:      paymentMethod,
			ContactPhone:       input.Phone,
			ContactEmail:       input.Email,
			OrderRef:           time.Now().Format("20060102150405") + "-" + uuid.NewString(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range cartItems {
			orderItem := models.OrderItem{
				OrderID:     order.ID,
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				PriceAtTime: item.Product.Price,
				Size:        item.Size,
				Color:       item.Color,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}

			// Conditional decrement: zero rows affected means the
			// product sold out under us.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &InsufficientStockError{ProductName: item.Product.Name}
			}

			impacts = append(impacts, sellerImpact{
				sellerID:     item.Product.SellerID,
				lowStock:     item.Product.Stock-item.Quantity <= notificationControllers.LowStockThreshold,
				productName:  item.Product.Name,
				currentStock: item.Product.Stock - item.Quantity,
			})
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	notifySellers(db, order.ID, impacts)
	broadcastNewOrder(db, order.ID)
	return &order, nil
}

// notifySellers fans out post-commit notifications: one new-order alert
// per distinct seller, plus low-stock alerts per affected product.
func notifySellers(db *gorm.DB, orderID uint, impacts []sellerImpact) {
	notified := make(map[uint]bool)
	for _, impact := range impacts {
		if !notified[impact.sellerID] {
			notified[impact.sellerID] = true
			notificationControllers.NotifyNewOrder(db, impact.sellerID, orderID)
		}
		if impact.lowStock {
			notificationControllers.NotifyLowStock(db, impact.sellerID, impact.productName, impact.currentStock)
		}
	}
}

// GET /buyer/checkout
func GetCheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var cartItems []models.CartItem
		if err := db.Preload("Product").
			Where("user_id = ?", auth.UserID).
			Find(&cartItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load checkout"})
			return
		}
		if len(cartItems) == 0 {
			c.Redirect(http.StatusSeeOther, "/buyer/cart")
			return
		}

		var user models.User
		if err := db.First(&user, auth.UserID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load checkout"})
			return
		}

		subtotal := decimal.Zero
		for _, item := range cartItems {
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"items":        cartItems,
			"subtotal":     subtotal,
			"shipping_fee": ShippingFee,
			"total":        subtotal.Add(ShippingFee),
			"profile": gin.H{
				"full_name":   user.FullName,
				"email":       user.Email,
				"phone":       user.Phone,
				"address":     user.Address,
				"city":        user.City,
				"postal_code": user.PostalCode,
			},
		})
	}
}

// POST /buyer/checkout
func PostCheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input CheckoutInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		order, err := PlaceOrder(db, auth.UserID, input)
		if err != nil {
			var stockErr *InsufficientStockError
			switch {
			case errors.As(err, &stockErr), errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			}
			return
		}

		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/buyer/orders/confirmation?order_id=%d", order.ID))
	}
}
