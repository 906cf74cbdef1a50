package middleware

import (
	"net/http"
	"strings"

	"wakacjecypr/internal/services"

	"github.com/gin-gonic/gin"
)

// TokenParser validates a bearer token.
type TokenParser interface {
	ParseToken(raw string) (services.Claims, error)
}

// AuthRequired rejects requests without a valid bearer token and stores
// the caller's id and role on the context for RequireRoles.
func AuthRequired(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "missing bearer token",
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		claims, err := p.ParseToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      err.Error(),
				"code":       "unauthorized",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}
