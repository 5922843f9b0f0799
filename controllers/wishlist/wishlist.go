package wishlistControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// AddToWishlist inserts a (user, product) entry. Re-adding an existing
// entry is a no-op, not an error.
func AddToWishlist(db *gorm.DB, userID, productID uint) error {
	var product models.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return err
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WishlistItem{UserID: userID, ProductID: productID}).Error
}

// POST /buyer/wishlist/add
func AddToWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input struct {
			ProductID uint `form:"product_id" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		if err := AddToWishlist(db, auth.UserID, input.ProductID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Added to wishlist successfully"})
	}
}

// POST /buyer/wishlist/remove
func RemoveFromWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var input struct {
			ProductID uint `form:"product_id" binding:"required"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
			return
		}

		if err := db.Where("user_id = ? AND product_id = ?", auth.UserID, input.ProductID).
			Delete(&models.WishlistItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to remove from wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Removed from wishlist successfully"})
	}
}

// GET /buyer/wishlist
func GetWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var items []models.WishlistItem
		if err := db.Preload("Product").
			Where("user_id = ?", auth.UserID).
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
	}
}
