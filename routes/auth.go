package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/auth"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db))
		authGroup.POST("/login", auth.LoginHandler(db))
		authGroup.POST("/logout", auth.LogoutHandler())
	}
}
