package middleware

import (
	"library-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// requireRole gates a route group on the role set by AuthMiddleware.
func requireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient permissions")
		c.Abort()
	}
}

// StaffOnly allows staff and admin callers.
func StaffOnly() gin.HandlerFunc {
	return requireRole("staff", "admin")
}

// AdminOnly allows admin callers.
func AdminOnly() gin.HandlerFunc {
	return requireRole("admin")
}

// ReaderOnly allows reader callers.
func ReaderOnly() gin.HandlerFunc {
	return requireRole("reader")
}
