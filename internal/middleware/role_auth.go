package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/org-management-api/internal/errors"
	"github.com/yukikurage/org-management-api/internal/models"
)

// RequireRole allows the request only when the current user has one of the
// given roles. It must run after RequireAuth.
func RequireRole(message string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if !slices.Contains(roles, user.Role) {
			apierrors.Forbidden(c, message)
			return
		}

		c.Next()
	}
}

// RequireAdmin allows organization admins only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("Admin permission is required for this action.", models.RoleAdmin)
}
