package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
	ErrCartItemNotFound  = errors.New("cart item not found")
)

type AddToCartInput struct {
	ProductID uint   `form:"product_id" binding:"required"`
	Size      string `form:"size" binding:"required"`
	Color     string `form:"color" binding:"required"`
	Quantity  int    `form:"quantity"`
}

// AddToCart merges the requested quantity into an existing
// (user, product, size, color) line or inserts a new one. The combined
// quantity may never exceed the product's current stock.
func AddToCart(db *gorm.DB, userID uint, input AddToCartInput) error {
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	var product models.Product
	if err := db.First(&product, input.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if product.Stock < input.Quantity {
		return ErrInsufficientStock
	}

	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
		userID, input.ProductID, input.Size, input.Color).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + input.Quantity
		if newQuantity > product.Stock {
			return ErrInsufficientStock
		}
		return db.Model(&item).Update("quantity", newQuantity).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(&models.CartItem{
			UserID:    userID,
			ProductID: input.ProductID,
			Size:      input.Size,
			Color:     input.Color,
			Quantity:  input.Quantity,
		}).Error
	default:
		return err
	}
}

// UpdateCartItem sets the quantity of a cart line the user owns,
// bounded by current product stock.
func UpdateCartItem(db *gorm.DB, userID, cartID uint, quantity int) error {
	if quantity < 1 {
		return errors.New("invalid quantity")
	}

	var item models.CartItem
	if err := db.Preload("Product").
		Where("id = ? AND user_id = ?", cartID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if quantity > item.Product.Stock {
		return ErrInsufficientStock
	}
	return db.Model(&item).Update("quantity", quantity).Error
}

// RemoveCartItem deletes a cart line the user owns.
func RemoveCartItem(db *gorm.DB, userID, cartID uint) error {
	result := db.Where("id = ? AND user_id = ?", cartID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// POST /buyer/cart/add
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input AddToCartInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select size and color"})
			return
		}

		if err := AddToCart(db, auth.UserID, input); err != nil {
			respondCartError(c, err, "Failed to add to cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to cart successfully"})
	}
}

// POST /buyer/cart/update
func UpdateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input struct {
			CartID   uint `form:"cart_id" binding:"required"`
			Quantity int  `form:"quantity" binding:"required,min=1"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		if err := UpdateCartItem(db, auth.UserID, input.CartID, input.Quantity); err != nil {
			respondCartError(c, err, "Failed to update cart")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart updated successfully"})
	}
}

// POST /buyer/cart/remove
func RemoveFromCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input struct {
			CartID uint `form:"cart_id" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		if err := RemoveCartItem(db, auth.UserID, input.CartID); err != nil {
			respondCartError(c, err, "Failed to remove item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item removed successfully"})
	}
}

// GET /buyer/cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var items []models.CartItem
		if err := db.Preload("Product").
			Where("user_id = ?", auth.UserID).
			Order("created_at ASC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch cart"})
			return
		}

		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"items":    items,
			"subtotal": subtotal,
		})
	}
}

func respondCartError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrCartItemNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
