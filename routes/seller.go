package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/napzon/napzon-api/controllers/order"
	productControllers "github.com/napzon/napzon-api/controllers/product"
	sellerControllers "github.com/napzon/napzon-api/controllers/seller"
	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// SetupSellerRoutes registers all "/seller/*" endpoints. Requires a
// seller session.
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleSeller))
	{
		// Catalog management
		productGroup := sellerGroup.Group("/products")
		{
			productGroup.GET("", productControllers.GetSellerProducts(db))
			productGroup.POST("", productControllers.CreateProduct(db))
			productGroup.PUT("/:id", productControllers.UpdateProduct(db))
			productGroup.DELETE("/:id", productControllers.DeleteProduct(db))
			productGroup.POST("/:id/image", productControllers.UploadProductImage(db))
			productGroup.GET("/export", productControllers.ExportProductsToExcel(db))
		}

		// Order management
		sellerGroup.GET("/orders", orderControllers.GetSellerOrdersHandler(db))
		sellerGroup.POST("/orders/manage", orderControllers.ManageOrdersHandler(db))
		sellerGroup.GET("/orders/feed", orderControllers.OrderFeedHandler)

		// Analytics
		sellerGroup.GET("/analytics", sellerControllers.GetAnalyticsHandler(db))
		sellerGroup.GET("/analytics/export", sellerControllers.ExportAnalyticsHandler(db))
	}
}
