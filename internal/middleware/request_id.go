package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key of the request id
const RequestIDKey = "requestID"

// requestIDMaxLen bounds client supplied ids so they cannot flood the logs
const requestIDMaxLen = 64

// RequestID propagates X-Request-ID, generating a UUID when the header is
// absent or too long
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}
		c.Set(RequestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
