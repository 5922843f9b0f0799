package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/napzon/napzon-api/models"
)

const sessionDuration = 72 * time.Hour

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GenerateToken signs a session token carrying the user's id and role.
func GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"role":    user.Role,
		"exp":     time.Now().Add(sessionDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// POST /auth/register
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		role := strings.ToLower(input.Role)
		if role != models.RoleBuyer && role != models.RoleSeller {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Role must be buyer or seller"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
			return
		}

		user := models.User{
			Email:        strings.ToLower(strings.TrimSpace(input.Email)),
			PasswordHash: string(hash),
			FullName:     input.FullName,
			Role:         role,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if role == models.RoleSeller {
				return tx.Create(&models.SellerInfo{UserID: user.ID}).Error
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email is already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Account created successfully"})
	}
}

// POST /auth/login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(input.Email))).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}

		token, err := GenerateToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to start session"})
			return
		}

		c.SetCookie("session", token, int(sessionDuration.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Logged in successfully",
			"token":   token,
			"role":    user.Role,
		})
	}
}

// POST /auth/logout
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("session", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
	}
}
