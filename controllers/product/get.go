package productControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/models"
)

// GetProducts lists products for the storefront. Optional filters:
// ?category=, ?q= (name search), ?featured=true.
//
// GET /buyer/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{})

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if keyword := strings.TrimSpace(c.Query("q")); keyword != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
		}
		if c.Query("featured") == "true" {
			query = query.Where("featured = ?", true)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// GetProductByID returns a single product.
//
// GET /buyer/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to retrieve product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}
