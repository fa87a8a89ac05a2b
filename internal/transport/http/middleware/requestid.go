package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/percefons/auth-service/internal/requestid"
)

// RequestID injects a request ID into the context and response header.
// A well-formed incoming X-Request-ID is preserved; otherwise a new UUID v4
// is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.FromHeader(c.GetHeader(requestid.Header))

		ctx := requestid.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestid.Header, id)
		c.Next()
	}
}
