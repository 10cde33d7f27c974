package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/charlesng35/paintstore/internal/reqctx"
)

const (
	// RequestIDHeader is read from and echoed to clients.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey stores the request id in the gin context.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID assigns every request an id, reusing a sane inbound X-Request-ID,
// and stores it in both the gin context and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(reqctx.WithRequest(c.Request.Context(), reqctx.Request{
			ID:        id,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}))

		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
