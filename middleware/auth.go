package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authContextKey = "auth_context"

// AuthContext is the request-scoped identity every protected handler
// works from. It replaces any notion of global session state.
type AuthContext struct {
	UserID uint
	Role   string
}

// GetAuth returns the AuthContext set by ValidateToken.
func GetAuth(c *gin.Context) (AuthContext, bool) {
	val, exists := c.Get(authContextKey)
	if !exists {
		return AuthContext{}, false
	}
	auth, ok := val.(AuthContext)
	return auth, ok
}

// ValidateToken authenticates the request from the "session" cookie or
// the Authorization header and stores a typed AuthContext.
func ValidateToken(c *gin.Context) {
	tokenString := tokenFromRequest(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Please log in first"})
		c.Abort()
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired session"})
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
		c.Abort()
		return
	}

	userID, okID := claims["user_id"].(float64)
	role, okRole := claims["role"].(string)
	if !okID || !okRole || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
		c.Abort()
		return
	}

	c.Set(authContextKey, AuthContext{UserID: uint(userID), Role: role})
	c.Next()
}

// RequireRole gates a route group to a single role. Runs after
// ValidateToken.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, ok := GetAuth(c)
		if !ok || auth.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Please log in as " + role + " first"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("session"); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}
