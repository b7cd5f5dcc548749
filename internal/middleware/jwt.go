package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/auth"
	"github.com/racso574/duoot-api/pkg/response"
)

// JWT returns a middleware that validates the bearer token and sets the
// resolved identity in context under auth.ContextUserID / auth.ContextUsername.
// Every mutating route runs behind it; plain reads do not.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(auth.ContextUserID, claims.UserID)
		c.Set(auth.ContextUsername, claims.Username)
		c.Next()
	}
}

// UserID returns the authenticated user's id from context. Only valid after
// the JWT middleware has run.
func UserID(c *gin.Context) int64 {
	return c.MustGet(auth.ContextUserID).(int64)
}
