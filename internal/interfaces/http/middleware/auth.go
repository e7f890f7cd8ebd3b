package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

const (
	ContextUserID  = "user_id"
	ContextEmail   = "user_email"
	ContextIsStaff = "is_staff"
)

// Auth validates the bearer token and stores the caller identity on
// the request context.
func Auth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(token, auth.AccessToken)
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid token"
			if err == auth.ErrExpiredToken {
				message = "token expired"
			}
			c.JSON(status, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextIsStaff, claims.IsStaff)
		c.Next()
	}
}

// StaffOnly rejects callers whose token lacks the staff flag. It must
// run after Auth. Staff access is decided here once; handlers never
// re-check roles.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isStaff, ok := c.Get(ContextIsStaff)
		if !ok || !isStaff.(bool) {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
