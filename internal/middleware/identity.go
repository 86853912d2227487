package middleware

import (
	"strings"

	"github.com/franciscosanchezn/gin-shift-api/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by IdentifyCaller
const (
	CallerEmailKey = "callerEmail"
	CallerRoleKey  = "callerRole"
)

// IdentifyCaller records who is calling when a valid Bearer token is
// presented. It never rejects a request: roles are advisory and the
// identity only feeds request logging.
func IdentifyCaller(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if tokenString, ok := strings.CutPrefix(header, "Bearer "); ok && tokenString != "" {
			if claims, err := issuer.Parse(tokenString); err == nil {
				c.Set(CallerEmailKey, claims.Email)
				c.Set(CallerRoleKey, claims.Role)
			} else {
				c.Set("callerTokenError", err.Error())
			}
		}
		c.Next()
	}
}
