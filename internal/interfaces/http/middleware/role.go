package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/domain/identity"
)

// RequireRole creates middleware that requires one of the given roles.
// Must be registered after JWTAuthMiddleware.
func RequireRole(roles ...identity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		for _, role := range roles {
			if identity.UserRole(claims.Role) == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient role for this operation",
			},
		})
	}
}

// RequireManager allows managers and owners
func RequireManager() gin.HandlerFunc {
	return RequireRole(identity.UserRoleOwner, identity.UserRoleManager)
}

// RequireOwner allows owners only
func RequireOwner() gin.HandlerFunc {
	return RequireRole(identity.UserRoleOwner)
}
