package productControllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// UploadDir resolves where product images land on disk. Served back at
// /uploads.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// GET /seller/products
func GetSellerProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		var products []models.Product
		if err := db.Where("seller_id = ?", auth.UserID).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// POST /seller/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		name := c.PostForm("name")
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name and price are required"})
			return
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid price"})
			return
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid stock"})
				return
			}
		}

		product := models.Product{
			SellerID:    auth.UserID,
			Name:        name,
			Brand:       c.PostForm("brand"),
			Category:    c.PostForm("category"),
			Price:       price,
			Sizes:       models.ParseStringList(c.PostForm("sizes")),
			Colors:      models.ParseStringList(c.PostForm("colors")),
			Stock:       stock,
			Description: c.PostForm("description"),
			Featured:    c.PostForm("featured") == "true",
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Product created", "product": product})
	}
}

// PUT /seller/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		product, ok := ownedProduct(c, db, auth.UserID)
		if !ok {
			return
		}

		updates := make(map[string]interface{})
		if v := c.PostForm("name"); v != "" {
			updates["name"] = v
		}
		if v := c.PostForm("brand"); v != "" {
			updates["brand"] = v
		}
		if v := c.PostForm("category"); v != "" {
			updates["category"] = v
		}
		if v := c.PostForm("description"); v != "" {
			updates["description"] = v
		}
		if v := c.PostForm("price"); v != "" {
			price, err := decimal.NewFromString(v)
			if err != nil || price.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid price"})
				return
			}
			updates["price"] = price
		}
		if v := c.PostForm("stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid stock"})
				return
			}
			updates["stock"] = stock
		}
		if v := c.PostForm("sizes"); v != "" {
			updates["sizes"] = models.ParseStringList(v)
		}
		if v := c.PostForm("colors"); v != "" {
			updates["colors"] = models.ParseStringList(v)
		}
		if v := c.PostForm("featured"); v != "" {
			updates["featured"] = v == "true"
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated", "product": product})
	}
}

// DELETE /seller/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		product, ok := ownedProduct(c, db, auth.UserID)
		if !ok {
			return
		}

		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
	}
}

// POST /seller/products/:id/image
func UploadProductImage(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, _ := middleware.GetAuth(c)

		product, ok := ownedProduct(c, db, auth.UserID)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image uploaded"})
			return
		}

		saveDir := filepath.Join(UploadDir(), "products")
		if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create upload folder"})
			return
		}

		filename := fmt.Sprintf("%d_%s", time.Now().Unix(),
			strings.ReplaceAll(fileHeader.Filename, " ", "_"))
		if err := c.SaveUploadedFile(fileHeader, filepath.Join(saveDir, filename)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save image"})
			return
		}

		imageURL := "/uploads/products/" + filename
		if err := db.Model(&product).Update("image_url", imageURL).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save image"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image uploaded", "image_url": imageURL})
	}
}

// ownedProduct fetches the :id product and enforces seller ownership,
// writing the error response itself when the check fails.
func ownedProduct(c *gin.Context, db *gorm.DB, sellerID uint) (models.Product, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return models.Product{}, false
	}

	var product models.Product
	if err := db.Where("id = ? AND seller_id = ?", id, sellerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return models.Product{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product"})
		return models.Product{}, false
	}
	return product, true
}
