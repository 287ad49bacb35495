package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
)

// AuthMiddleware validates the bearer token and stores user id + role in
// the gin context. Requests without a valid token are rejected.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, manager)
		if !ok {
			response.Unauthorized(c, "Missing or invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth parses the bearer token when present but lets anonymous
// requests through. Book listings use it: the resolved status depends on
// who is looking.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, manager); ok {
			if userID, err := uuid.Parse(claims.UserID); err == nil {
				c.Set(CtxUserID, userID)
				c.Set(CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := manager.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}
