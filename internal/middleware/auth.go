package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"userhub_backend/internal/services"
	"userhub_backend/pkg/contextkeys"
)

const bearerPrefix = "Bearer "

// TokenAuthMiddleware resolves the Authorization bearer token to a user id
// and stores it in the gin context. It never rejects the request itself:
// public routes keep working unauthenticated, and handlers of protected
// routes decide what an anonymous caller may do.
func TokenAuthMiddleware(tokenService services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		db, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			c.Next()
			return
		}

		userID, err := tokenService.Verify(db.(*gorm.DB), tokenString)
		if err == nil {
			c.Set(string(contextkeys.AuthUserKey), userID)
		}

		c.Next()
	}
}

// BearerToken extracts the raw token from the Authorization header, or "".
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, bearerPrefix)
}

// AuthenticatedUserID returns the verified user id for the request and
// whether one is present.
func AuthenticatedUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(string(contextkeys.AuthUserKey))
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
