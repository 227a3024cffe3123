package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionHeader     = "X-Session-ID"
	sessionContextKey = "session_id"
)

// Session resolves the caller's session identifier from the X-Session-ID
// header, minting a fresh one when the header is absent. The resolved ID
// is echoed back on the response so first-time clients can persist it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(sessionContextKey, id)
		c.Writer.Header().Set(sessionHeader, id)
		c.Next()
	}
}

// SessionID returns the session identifier resolved for this request.
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionContextKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
