package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/napzon/napzon-api/controllers/cart"
	orderControllers "github.com/napzon/napzon-api/controllers/order"
	productControllers "github.com/napzon/napzon-api/controllers/product"
	wishlistControllers "github.com/napzon/napzon-api/controllers/wishlist"
	"github.com/napzon/napzon-api/middleware"
	"github.com/napzon/napzon-api/models"
)

// SetupBuyerRoutes registers all "/buyer/*" endpoints. Requires a buyer
// session.
func SetupBuyerRoutes(r *gin.Engine, db *gorm.DB) {
	buyerGroup := r.Group("/buyer")
	buyerGroup.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleBuyer))
	{
		// Storefront browsing
		buyerGroup.GET("/products", productControllers.GetProducts(db))
		buyerGroup.GET("/products/:id", productControllers.GetProductByID(db))

		// Shopping cart
		cartGroup := buyerGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCartHandler(db))
			cartGroup.POST("/add", cartControllers.AddToCartHandler(db))
			cartGroup.POST("/update", cartControllers.UpdateCartHandler(db))
			cartGroup.POST("/remove", cartControllers.RemoveFromCartHandler(db))
		}

		// Wishlist
		wishlistGroup := buyerGroup.Group("/wishlist")
		{
			wishlistGroup.GET("", wishlistControllers.GetWishlistHandler(db))
			wishlistGroup.POST("/add", wishlistControllers.AddToWishlistHandler(db))
			wishlistGroup.POST("/remove", wishlistControllers.RemoveFromWishlistHandler(db))
		}

		// Checkout and orders
		buyerGroup.GET("/checkout", orderControllers.GetCheckoutHandler(db))
		buyerGroup.POST("/checkout", orderControllers.PostCheckoutHandler(db))
		buyerGroup.GET("/orders", orderControllers.GetBuyerOrdersHandler(db))
		buyerGroup.GET("/orders/confirmation", orderControllers.OrderConfirmationHandler(db))
		buyerGroup.POST("/orders/cancel", orderControllers.CancelOrderHandler(db))
	}
}
