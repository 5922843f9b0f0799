package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	notificationControllers "github.com/napzon/napzon-api/controllers/notification"
	"github.com/napzon/napzon-api/middleware"
)

// SetupRoutes is the single entry point that wires up the auth, buyer,
// seller, and notification route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Buyer storefront routes (JWT + buyer role)
	SetupBuyerRoutes(r, db)

	// Seller back-office routes (JWT + seller role)
	SetupSellerRoutes(r, db)

	// Notifications are shared by both roles; the polling client hits
	// this every 30 seconds.
	r.POST("/notifications", middleware.ValidateToken, notificationControllers.NotificationsHandler(db))
}
